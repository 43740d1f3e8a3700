// Package quiz implements the quiz session state machine: navigation, answer recording,
// confirmation locking, scoring and resumable persistence.
package quiz

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"github.com/SAP-F-2025/quiz-service/internal/models"
)

// Session is one quiz run over a fixed, ordered list of questions.
//
// Selection policy: on a single-answer question (exactly one correct option) selecting an option
// replaces the current selection; on a multi-answer question it toggles membership.
//
// Once a question is confirmed its answer can no longer change. Once the session is completed
// every mutating method is a no-op. Every applied mutation is mirrored to the persistence adapter.
//
// A Session is not safe for concurrent use.
type Session struct {
	key         SessionKey
	questions   []models.Question
	persistence *Persistence
	logger      *slog.Logger

	passThreshold float64

	index     int
	answers   map[int][]int
	confirmed map[int]struct{}
	flagged   map[int]struct{}
	completed bool
	restored  bool
}

// Option configures a Session
type Option func(*Session)

// WithLogger sets the session logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPassThreshold sets the percentage needed for a passing report
func WithPassThreshold(threshold float64) Option {
	return func(s *Session) {
		s.passThreshold = threshold
	}
}

// NewSession creates a session over questions. When persistence holds a record for key the
// session resumes from it; persistence may be nil.
func NewSession(ctx context.Context, questions []models.Question, key SessionKey, persistence *Persistence, opts ...Option) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrEmptySession
	}

	s := &Session{
		key:           key,
		questions:     slices.Clone(questions),
		persistence:   persistence,
		logger:        slog.Default(),
		passThreshold: models.DefaultPassThreshold,
		answers:       make(map[int][]int),
		confirmed:     make(map[int]struct{}),
		flagged:       make(map[int]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if persistence != nil {
		if state, ok := persistence.Load(ctx, key); ok {
			s.restore(state)
			s.restored = true
			s.logger.DebugContext(ctx, "Resumed quiz session", "session_key", key.String(), "index", s.index)
		}
	}

	return s, nil
}

// restore applies a persisted record, dropping anything that does not match the question list.
func (s *Session) restore(state *models.SessionState) {
	byID := make(map[int]*models.Question, len(s.questions))
	for i := range s.questions {
		byID[s.questions[i].ID] = &s.questions[i]
	}

	for qid, selected := range state.SavedAnswers {
		q, ok := byID[qid]
		if !ok {
			continue
		}
		var kept []int
		for _, oid := range selected {
			if q.HasOption(oid) && !slices.Contains(kept, oid) {
				kept = append(kept, oid)
			}
		}
		if q.IsSingleAnswer() && len(kept) > 1 {
			kept = kept[len(kept)-1:]
		}
		if len(kept) > 0 {
			s.answers[qid] = kept
		}
	}

	for _, qid := range state.SavedConfirmed {
		if _, answered := s.answers[qid]; answered {
			s.confirmed[qid] = struct{}{}
		}
	}

	for _, qid := range state.SavedFlagged {
		if _, ok := byID[qid]; ok {
			s.flagged[qid] = struct{}{}
		}
	}

	s.index = min(max(state.SavedIndex, 0), len(s.questions)-1)
}

// SelectOption records optionID for the current question.
func (s *Session) SelectOption(ctx context.Context, optionID int) bool {
	if s.completed {
		return false
	}

	q := &s.questions[s.index]
	if s.isConfirmed(q.ID) {
		s.logger.DebugContext(ctx, "Ignoring selection on confirmed question", "question_id", q.ID)
		return false
	}
	if !q.HasOption(optionID) {
		s.logger.DebugContext(ctx, "Ignoring unknown option", "question_id", q.ID, "option_id", optionID)
		return false
	}

	current := s.answers[q.ID]
	switch {
	case q.IsSingleAnswer():
		s.answers[q.ID] = []int{optionID}
	case slices.Contains(current, optionID):
		current = slices.DeleteFunc(slices.Clone(current), func(id int) bool { return id == optionID })
		if len(current) == 0 {
			delete(s.answers, q.ID)
		} else {
			s.answers[q.ID] = current
		}
	default:
		s.answers[q.ID] = append(slices.Clone(current), optionID)
	}

	s.save(ctx)
	return true
}

// ConfirmCurrent locks the answer of the current question. Unanswered or already confirmed
// questions are left untouched.
func (s *Session) ConfirmCurrent(ctx context.Context) bool {
	if s.completed {
		return false
	}

	qid := s.questions[s.index].ID
	if s.isConfirmed(qid) {
		return false
	}
	if len(s.answers[qid]) == 0 {
		s.logger.DebugContext(ctx, "Ignoring confirm without selection", "question_id", qid)
		return false
	}

	s.confirmed[qid] = struct{}{}
	s.save(ctx)
	return true
}

// ToggleFlag flips the review flag of the current question.
func (s *Session) ToggleFlag(ctx context.Context) bool {
	if s.completed {
		return false
	}

	qid := s.questions[s.index].ID
	if _, ok := s.flagged[qid]; ok {
		delete(s.flagged, qid)
	} else {
		s.flagged[qid] = struct{}{}
	}
	s.save(ctx)
	return true
}

// GoNext moves to the next question. At the last question it does nothing.
func (s *Session) GoNext(ctx context.Context) bool {
	return s.GoTo(ctx, s.index+1)
}

// GoPrevious moves to the previous question. At the first question it does nothing.
func (s *Session) GoPrevious(ctx context.Context) bool {
	return s.GoTo(ctx, s.index-1)
}

// GoTo jumps to the question at index.
func (s *Session) GoTo(ctx context.Context, index int) bool {
	if s.completed || index < 0 || index >= len(s.questions) || index == s.index {
		return false
	}
	s.index = index
	s.save(ctx)
	return true
}

// Submit completes the session and deletes its persisted record.
func (s *Session) Submit(ctx context.Context) bool {
	if s.completed {
		return false
	}
	s.completed = true
	if s.persistence != nil {
		s.persistence.Remove(ctx, s.key)
	}
	return true
}

// Reset wipes all answers, confirmations and flags, returns to the first question and
// reactivates a completed session.
func (s *Session) Reset(ctx context.Context) bool {
	s.index = 0
	s.answers = make(map[int][]int)
	s.confirmed = make(map[int]struct{})
	s.flagged = make(map[int]struct{})
	s.completed = false
	s.save(ctx)
	return true
}

func (s *Session) save(ctx context.Context) {
	if s.persistence != nil {
		s.persistence.Save(ctx, s.key, s.State())
	}
}

func (s *Session) isConfirmed(qid int) bool {
	_, ok := s.confirmed[qid]
	return ok
}

func (s *Session) Key() SessionKey { return s.key }

func (s *Session) Index() int { return s.index }

func (s *Session) Len() int { return len(s.questions) }

func (s *Session) Completed() bool { return s.completed }

// Restored reports whether the session was resumed from a persisted record.
func (s *Session) Restored() bool { return s.restored }

// Current returns the question at the current index.
func (s *Session) Current() models.Question {
	return s.questions[s.index]
}

// Questions returns the session questions in order.
func (s *Session) Questions() []models.Question {
	return slices.Clone(s.questions)
}

// Selected returns the options currently selected for question qid.
func (s *Session) Selected(qid int) []int {
	return slices.Clone(s.answers[qid])
}

func (s *Session) IsConfirmed(qid int) bool {
	return s.isConfirmed(qid)
}

func (s *Session) IsFlagged(qid int) bool {
	_, ok := s.flagged[qid]
	return ok
}

// State returns the serializable mutable state.
func (s *Session) State() models.SessionState {
	answers := make(map[int][]int, len(s.answers))
	for qid, selected := range s.answers {
		answers[qid] = slices.Clone(selected)
	}
	return models.SessionState{
		SavedAnswers:   answers,
		SavedIndex:     s.index,
		SavedConfirmed: sortedIDs(s.confirmed),
		SavedFlagged:   sortedIDs(s.flagged),
	}
}

func sortedIDs(set map[int]struct{}) []int {
	ids := slices.AppendSeq(make([]int, 0, len(set)), maps.Keys(set))
	slices.Sort(ids)
	return ids
}

// Progress counts answered, confirmed and flagged questions.
func (s *Session) Progress() models.Progress {
	answered := 0
	for _, q := range s.questions {
		if len(s.answers[q.ID]) > 0 {
			answered++
		}
	}
	total := len(s.questions)
	return models.Progress{
		Total:     total,
		Answered:  answered,
		Remaining: total - answered,
		Confirmed: len(s.confirmed),
		Flagged:   len(s.flagged),
		Percent:   models.Percent(answered, total),
	}
}
