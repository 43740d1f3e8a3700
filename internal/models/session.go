package models

// SessionState is the persisted record of an in-progress quiz session. The JSON field names are
// part of the storage format and must not change.
type SessionState struct {
	SavedAnswers   map[int][]int `json:"savedAnswers"`
	SavedIndex     int           `json:"savedIndex"`
	SavedConfirmed []int         `json:"savedConfirmed"`
	SavedFlagged   []int         `json:"savedFlagged"`
}

// QuizConfig is handed from the configuration screen to the quiz screen.
type QuizConfig struct {
	Unit             string     `json:"unit" validate:"required"`
	Module           string     `json:"module" validate:"required"`
	Course           string     `json:"course,omitempty"`
	QuestionCount    int        `json:"question_count" validate:"required,question_count"`
	TimeLimitSeconds int        `json:"time_limit_seconds,omitempty" validate:"min=0,max=86400"`
	Questions        []Question `json:"questions,omitempty"`
}

// Progress summarizes how far the user got through a session.
type Progress struct {
	Total     int     `json:"total"`
	Answered  int     `json:"answered"`
	Remaining int     `json:"remaining"`
	Confirmed int     `json:"confirmed"`
	Flagged   int     `json:"flagged"`
	Percent   float64 `json:"percent"`
}
