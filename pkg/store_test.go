package pkg

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/SAP-F-2025/quiz-service/internal/config"
	"github.com/SAP-F-2025/quiz-service/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionStore_Memory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	kv, closeFn, err := NewSessionStore(context.Background(), &config.Config{SessionStore: "memory"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &store.MemoryStore{}, kv)
	assert.NoError(t, closeFn())
}

func TestNewSessionStore_Unknown(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, _, err := NewSessionStore(context.Background(), &config.Config{SessionStore: "etcd"}, logger)
	assert.Error(t, err)
}

func TestNewRedisClient_InvalidURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), &config.Config{RedisURL: "not-a-url"})
	assert.Error(t, err)
}
