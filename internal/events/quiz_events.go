package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the quiz lifecycle events
type EventType string

const (
	EventQuizStarted     EventType = "quiz.started"
	EventQuizResumed     EventType = "quiz.resumed"
	EventAnswerConfirmed EventType = "quiz.answer_confirmed"
	EventQuizSubmitted   EventType = "quiz.submitted"
	EventQuizTimedOut    EventType = "quiz.timed_out"
	EventQuizRetried     EventType = "quiz.retried"
	EventQuizAbandoned   EventType = "quiz.abandoned"
)

const (
	eventSource  = "quiz-service"
	eventVersion = "1.0"
)

// QuizEvent is the envelope of every published event
type QuizEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewQuizEvent wraps data in a new envelope with a fresh ID
func NewQuizEvent(eventType EventType, data interface{}) *QuizEvent {
	return &QuizEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

// SessionEvent describes a session lifecycle change
type SessionEvent struct {
	SessionKey    string `json:"session_key"`
	Unit          string `json:"unit"`
	Module        string `json:"module"`
	Course        string `json:"course,omitempty"`
	QuestionCount int    `json:"question_count"`
}

// AnswerConfirmedEvent is published when a question answer is locked
type AnswerConfirmedEvent struct {
	SessionKey string `json:"session_key"`
	QuestionID int    `json:"question_id"`
	Selected   []int  `json:"selected"`
	Correct    bool   `json:"correct"`
}

// SessionCompletedEvent is published on submission or time out
type SessionCompletedEvent struct {
	SessionKey string  `json:"session_key"`
	Unit       string  `json:"unit"`
	Module     string  `json:"module"`
	Correct    int     `json:"correct"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	Passed     bool    `json:"passed"`
}
