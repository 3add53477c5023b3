package syncrun

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Recorder is the no-throw observability port the engine writes run
// lifecycle events through. Every store failure is swallowed and logged at
// WARN: audit logging must not become a new failure mode for a run.
type Recorder struct {
	store  Store
	logger *slog.Logger
}

// NewRecorder wraps a store. A nil logger disables warning output.
func NewRecorder(store Store, logger *slog.Logger) *Recorder {
	return &Recorder{store: store, logger: logger}
}

// Started inserts the run's started row.
func (r *Recorder) Started(ctx context.Context, id uuid.UUID, runType Type, options []byte, startedAt time.Time) {
	err := r.store.Begin(ctx, Run{
		ID:        id,
		Type:      runType,
		Status:    StatusStarted,
		Options:   options,
		StartedAt: startedAt,
	})
	r.warn(ctx, "record run start", id, err)
}

// Completed moves the run to its completed terminal state.
func (r *Recorder) Completed(ctx context.Context, id uuid.UUID, result []byte, duration time.Duration) {
	now := time.Now()
	err := r.store.Complete(ctx, id, Run{
		ID:          id,
		Status:      StatusCompleted,
		Result:      result,
		CompletedAt: &now,
		Duration:    duration,
	})
	r.warn(ctx, "record run completion", id, err)
}

// Failed moves the run to its failed terminal state.
func (r *Recorder) Failed(ctx context.Context, id uuid.UUID, message string, duration time.Duration) {
	now := time.Now()
	err := r.store.Fail(ctx, id, Run{
		ID:          id,
		Status:      StatusFailed,
		Error:       message,
		CompletedAt: &now,
		Duration:    duration,
	})
	r.warn(ctx, "record run failure", id, err)
}

func (r *Recorder) warn(ctx context.Context, op string, id uuid.UUID, err error) {
	if err == nil || r.logger == nil {
		return
	}
	r.logger.WarnContext(ctx, "sync run audit write failed",
		"op", op,
		"run_id", id,
		"error", err,
	)
}
