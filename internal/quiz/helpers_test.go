package quiz

import (
	"context"
	"io"
	"log/slog"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/stretchr/testify/mock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// question builds a question with options 1..8 and the given correct set.
func question(id int, module string, correct ...int) models.Question {
	opts := make([]models.Option, 0, 8)
	for i := 1; i <= 8; i++ {
		opts = append(opts, models.Option{ID: i, Text: string(rune('A' + i - 1))})
	}
	return models.Question{
		ID:               id,
		Text:             "question",
		Module:           module,
		Options:          opts,
		CorrectOptionIDs: correct,
		Explanation:      "because",
	}
}

func fiveQuestions() []models.Question {
	return []models.Question{
		question(1, "Cardiology", 1),
		question(2, "Cardiology", 2, 5),
		question(3, "Neurology", 3),
		question(4, "Neurology", 4),
		question(5, "Renal", 1, 2),
	}
}

var testKey = SessionKey{Unit: "Medicine", Module: "Cardiology", QuestionCount: 5}

type mockKV struct {
	mock.Mock
}

func (m *mockKV) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *mockKV) Set(ctx context.Context, key string, value []byte) error {
	return m.Called(ctx, key, value).Error(0)
}

func (m *mockKV) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}
