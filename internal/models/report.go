package models

// ModuleRating buckets a module accuracy for display.
type ModuleRating string

const (
	RatingGood ModuleRating = "good"
	RatingFair ModuleRating = "fair"
	RatingPoor ModuleRating = "poor"
)

// DefaultPassThreshold is the percentage at or above which a quiz counts as passed.
const DefaultPassThreshold = 70.0

// Score is the overall result of a session.
type Score struct {
	Correct    int     `json:"correct"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// ModuleStat is the per-module slice of a score.
type ModuleStat struct {
	Module   string       `json:"module"`
	Total    int          `json:"total"`
	Correct  int          `json:"correct"`
	Accuracy float64      `json:"accuracy"`
	Rating   ModuleRating `json:"rating"`
}

// QuestionResult is the per-question line of a score report.
type QuestionResult struct {
	QuestionID       int    `json:"question_id"`
	Module           string `json:"module"`
	Text             string `json:"text"`
	Selected         []int  `json:"selected"`
	CorrectOptionIDs []int  `json:"correct_option_ids"`
	Correct          bool   `json:"correct"`
	Confirmed        bool   `json:"confirmed"`
	Flagged          bool   `json:"flagged"`
	Explanation      string `json:"explanation,omitempty"`
}

// ScoreReport is a derived snapshot of a session; it is never stored.
type ScoreReport struct {
	Unit      string           `json:"unit"`
	Module    string           `json:"module"`
	Course    string           `json:"course,omitempty"`
	Score     Score            `json:"score"`
	Modules   []ModuleStat     `json:"modules"`
	Passed    bool             `json:"passed"`
	Completed bool             `json:"completed"`
	Progress  Progress         `json:"progress"`
	Questions []QuestionResult `json:"questions"`
}

// Percent returns part/total*100, or 0 when total is 0.
func Percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// RateAccuracy maps an accuracy percentage to a rating.
func RateAccuracy(accuracy float64) ModuleRating {
	switch {
	case accuracy >= 70:
		return RatingGood
	case accuracy >= 50:
		return RatingFair
	default:
		return RatingPoor
	}
}
