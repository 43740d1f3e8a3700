package services

import (
	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/quiz"
)

// SessionView is the client representation of a session. Correct options and explanations stay
// hidden until the question is confirmed or the session is completed.
type SessionView struct {
	ID               string           `json:"id"`
	Unit             string           `json:"unit"`
	Module           string           `json:"module"`
	Course           string           `json:"course,omitempty"`
	QuestionCount    int              `json:"question_count"`
	Index            int              `json:"index"`
	Total            int              `json:"total"`
	Completed        bool             `json:"completed"`
	Restored         bool             `json:"restored"`
	// Resumed is set by Start when it returned an existing session instead of creating one.
	Resumed          bool             `json:"resumed"`
	Current          QuestionView     `json:"current"`
	Questions        []QuestionStatus `json:"questions"`
	Progress         models.Progress  `json:"progress"`
	RemainingSeconds *int             `json:"remaining_seconds,omitempty"`
	Score            *models.Score    `json:"score,omitempty"`
}

// QuestionView is the current question as shown to the user
type QuestionView struct {
	ID               int               `json:"id"`
	Text             string            `json:"text"`
	Module           string            `json:"module"`
	Courses          []string          `json:"courses,omitempty"`
	Options          []models.Option   `json:"options"`
	MultiAnswer      bool              `json:"multi_answer"`
	Selected         []int             `json:"selected"`
	Confirmed        bool              `json:"confirmed"`
	Flagged          bool              `json:"flagged"`
	CorrectOptionIDs []int             `json:"correct_option_ids,omitempty"`
	Correct          *bool             `json:"correct,omitempty"`
	Explanation      string            `json:"explanation,omitempty"`
	Reference        *models.Reference `json:"reference,omitempty"`
}

// QuestionStatus is one cell of the question strip
type QuestionStatus struct {
	Index     int  `json:"index"`
	ID        int  `json:"id"`
	Answered  bool `json:"answered"`
	Confirmed bool `json:"confirmed"`
	Flagged   bool `json:"flagged"`
}

func newSessionView(id string, session *quiz.Session, remainingSeconds *int) *SessionView {
	key := session.Key()
	view := &SessionView{
		ID:               id,
		Unit:             key.Unit,
		Module:           key.Module,
		Course:           key.Course,
		QuestionCount:    key.QuestionCount,
		Index:            session.Index(),
		Total:            session.Len(),
		Completed:        session.Completed(),
		Restored:         session.Restored(),
		Current:          newQuestionView(session, session.Current()),
		Progress:         session.Progress(),
		RemainingSeconds: remainingSeconds,
	}

	for i, q := range session.Questions() {
		view.Questions = append(view.Questions, QuestionStatus{
			Index:     i,
			ID:        q.ID,
			Answered:  len(session.Selected(q.ID)) > 0,
			Confirmed: session.IsConfirmed(q.ID),
			Flagged:   session.IsFlagged(q.ID),
		})
	}

	if session.Completed() {
		score := session.Score()
		view.Score = &score
	}
	return view
}

func newQuestionView(session *quiz.Session, q models.Question) QuestionView {
	selected := append([]int{}, session.Selected(q.ID)...)
	view := QuestionView{
		ID:          q.ID,
		Text:        q.Text,
		Module:      q.Module,
		Courses:     q.Courses,
		Options:     q.Options,
		MultiAnswer: !q.IsSingleAnswer(),
		Selected:    selected,
		Confirmed:   session.IsConfirmed(q.ID),
		Flagged:     session.IsFlagged(q.ID),
		Reference:   q.Reference,
	}

	if view.Confirmed || session.Completed() {
		correct := q.IsCorrect(selected)
		view.CorrectOptionIDs = q.CorrectOptionIDs
		view.Correct = &correct
		view.Explanation = q.Explanation
	}
	return view
}
