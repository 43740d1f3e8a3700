package quiz

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/store"
)

// Persistence mirrors session state into a KV store. It is best effort: every failure is logged
// and swallowed so the quiz flow never stops on storage problems.
type Persistence struct {
	kv     store.KV
	logger *slog.Logger
}

// NewPersistence creates a persistence adapter over kv
func NewPersistence(kv store.KV, logger *slog.Logger) *Persistence {
	if logger == nil {
		logger = slog.Default()
	}
	return &Persistence{kv: kv, logger: logger}
}

// Load returns the stored record for key. The boolean is false when nothing usable is stored.
func (p *Persistence) Load(ctx context.Context, key SessionKey) (*models.SessionState, bool) {
	raw, err := p.kv.Get(ctx, key.String())
	if err != nil {
		if !store.IsNotFound(err) {
			p.logger.WarnContext(ctx, "Failed to load session state", "session_key", key.String(), "error", err)
		}
		return nil, false
	}

	var state models.SessionState
	if err := json.Unmarshal(raw, &state); err != nil {
		p.logger.WarnContext(ctx, "Discarding unreadable session state", "session_key", key.String(), "error", err)
		return nil, false
	}
	return &state, true
}

// Save writes state under key.
func (p *Persistence) Save(ctx context.Context, key SessionKey, state models.SessionState) {
	raw, err := json.Marshal(state)
	if err != nil {
		p.logger.WarnContext(ctx, "Failed to encode session state", "session_key", key.String(), "error", err)
		return
	}
	if err := p.kv.Set(ctx, key.String(), raw); err != nil {
		p.logger.WarnContext(ctx, "Failed to save session state", "session_key", key.String(), "error", err)
	}
}

// Remove deletes the record stored under key.
func (p *Persistence) Remove(ctx context.Context, key SessionKey) {
	if err := p.kv.Delete(ctx, key.String()); err != nil {
		p.logger.WarnContext(ctx, "Failed to remove session state", "session_key", key.String(), "error", err)
	}
}
