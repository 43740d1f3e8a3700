package quiz

import (
	"slices"

	"github.com/SAP-F-2025/quiz-service/internal/models"
)

// Score counts questions whose selection is set-equal to the correct options. Unanswered
// questions count as incorrect; there is no partial credit.
func (s *Session) Score() models.Score {
	correct := 0
	for i := range s.questions {
		if s.questions[i].IsCorrect(s.answers[s.questions[i].ID]) {
			correct++
		}
	}
	return models.Score{
		Correct:    correct,
		Total:      len(s.questions),
		Percentage: models.Percent(correct, len(s.questions)),
	}
}

// ModuleBreakdown groups the score by question module, in order of first appearance.
func (s *Session) ModuleBreakdown() []models.ModuleStat {
	var stats []models.ModuleStat
	pos := make(map[string]int)

	for i := range s.questions {
		q := &s.questions[i]
		idx, ok := pos[q.Module]
		if !ok {
			idx = len(stats)
			pos[q.Module] = idx
			stats = append(stats, models.ModuleStat{Module: q.Module})
		}
		stats[idx].Total++
		if q.IsCorrect(s.answers[q.ID]) {
			stats[idx].Correct++
		}
	}

	for i := range stats {
		stats[i].Accuracy = models.Percent(stats[i].Correct, stats[i].Total)
		stats[i].Rating = models.RateAccuracy(stats[i].Accuracy)
	}
	return stats
}

// Report builds a score report snapshot of the session.
func (s *Session) Report() models.ScoreReport {
	score := s.Score()

	results := make([]models.QuestionResult, 0, len(s.questions))
	for i := range s.questions {
		q := &s.questions[i]
		selected := append([]int{}, s.answers[q.ID]...)
		slices.Sort(selected)
		results = append(results, models.QuestionResult{
			QuestionID:       q.ID,
			Module:           q.Module,
			Text:             q.Text,
			Selected:         selected,
			CorrectOptionIDs: slices.Clone(q.CorrectOptionIDs),
			Correct:          q.IsCorrect(selected),
			Confirmed:        s.IsConfirmed(q.ID),
			Flagged:          s.IsFlagged(q.ID),
			Explanation:      q.Explanation,
		})
	}

	return models.ScoreReport{
		Unit:      s.key.Unit,
		Module:    s.key.Module,
		Course:    s.key.Course,
		Score:     score,
		Modules:   s.ModuleBreakdown(),
		Passed:    score.Percentage >= s.passThreshold,
		Completed: s.completed,
		Progress:  s.Progress(),
		Questions: results,
	}
}
