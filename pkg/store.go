package pkg

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/quiz-service/internal/config"
	"github.com/SAP-F-2025/quiz-service/internal/store"
)

// NewSessionStore opens the KV store selected by SESSION_STORE. The returned close function
// releases its connections.
func NewSessionStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.KV, func() error, error) {
	switch cfg.SessionStore {
	case "redis":
		client, err := NewRedisClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using redis session store", "ttl", cfg.SessionTTL)
		return store.NewRedisStore(client, cfg.SessionTTL), client.Close, nil

	case "postgres":
		db, err := InitDatabase(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		s, err := store.NewPostgresStore(db, cfg.SessionTTL)
		if err != nil {
			sqlDB.Close()
			return nil, nil, err
		}
		if purged, err := s.PurgeExpired(ctx); err != nil {
			logger.Warn("Failed to purge expired sessions", "error", err)
		} else if purged > 0 {
			logger.Info("Purged expired sessions", "count", purged)
		}
		logger.Info("Using postgres session store", "ttl", cfg.SessionTTL)
		return s, sqlDB.Close, nil

	case "memory", "":
		logger.Info("Using in-memory session store")
		return store.NewMemoryStore(), func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
	}
}
