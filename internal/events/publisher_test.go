package events

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	topic    string
	messages []*message.Message
	closed   bool
}

func (r *recordingPublisher) Publish(topic string, messages ...*message.Message) error {
	r.topic = topic
	r.messages = append(r.messages, messages...)
	return nil
}

func (r *recordingPublisher) Close() error {
	r.closed = true
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewQuizEvent(t *testing.T) {
	event := NewQuizEvent(EventQuizStarted, SessionEvent{SessionKey: "k"})

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, EventQuizStarted, event.Type)
	assert.Equal(t, "quiz-service", event.Source)
	assert.Equal(t, "1.0", event.Version)
	assert.False(t, event.Timestamp.IsZero())
}

func TestWatermillPublisher_Publish(t *testing.T) {
	rec := &recordingPublisher{}
	publisher := newWatermillPublisher(rec, "quiz-events", discardLogger())

	event := NewQuizEvent(EventQuizSubmitted, SessionCompletedEvent{SessionKey: "k", Correct: 1, Total: 2, Percentage: 50})
	require.NoError(t, publisher.Publish(context.Background(), event))

	require.Len(t, rec.messages, 1)
	assert.Equal(t, "quiz-events", rec.topic)

	msg := rec.messages[0]
	assert.Equal(t, event.ID, msg.UUID)
	assert.Equal(t, string(EventQuizSubmitted), msg.Metadata.Get("event_type"))
	assert.Equal(t, "quiz-service", msg.Metadata.Get("source"))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Payload, &decoded))
	assert.Equal(t, "quiz.submitted", decoded["type"])

	require.NoError(t, publisher.Close())
	assert.True(t, rec.closed)
}

func TestMockEventPublisher(t *testing.T) {
	mock := NewMockEventPublisher(discardLogger())

	require.NoError(t, mock.Publish(context.Background(), NewQuizEvent(EventQuizStarted, nil)))
	require.NoError(t, mock.Publish(context.Background(), NewQuizEvent(EventQuizAbandoned, nil)))

	published := mock.GetPublishedEvents()
	require.Len(t, published, 2)
	assert.Equal(t, EventQuizAbandoned, published[1].Type)

	mock.ClearEvents()
	assert.Empty(t, mock.GetPublishedEvents())
}
