// Package store provides PostgreSQL and in-memory implementations of the
// syncrun.Store port.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"benchwatch/internal/syncrun"
	"benchwatch/pkg/platform/sentinel"
)

// Postgres persists run audit records.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed run store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Begin(ctx context.Context, run syncrun.Run) error {
	query := `
		INSERT INTO sync_runs (id, run_type, status, options, started_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		run.ID,
		string(run.Type),
		string(run.Status),
		run.Options,
		run.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sync run: %w", err)
	}
	return nil
}

func (s *Postgres) Complete(ctx context.Context, id uuid.UUID, run syncrun.Run) error {
	query := `
		UPDATE sync_runs
		SET status = $2, result = $3, completed_at = $4, duration_ms = $5
		WHERE id = $1 AND status = $6
	`
	res, err := s.db.ExecContext(ctx, query,
		id,
		string(syncrun.StatusCompleted),
		run.Result,
		run.CompletedAt,
		run.Duration.Milliseconds(),
		string(syncrun.StatusStarted),
	)
	if err != nil {
		return fmt.Errorf("complete sync run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("sync run %s not in started state: %w", id, sentinel.ErrInvalidState)
	}
	return nil
}

func (s *Postgres) Fail(ctx context.Context, id uuid.UUID, run syncrun.Run) error {
	query := `
		UPDATE sync_runs
		SET status = $2, error = $3, completed_at = $4, duration_ms = $5
		WHERE id = $1 AND status = $6
	`
	res, err := s.db.ExecContext(ctx, query,
		id,
		string(syncrun.StatusFailed),
		run.Error,
		run.CompletedAt,
		run.Duration.Milliseconds(),
		string(syncrun.StatusStarted),
	)
	if err != nil {
		return fmt.Errorf("fail sync run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("sync run %s not in started state: %w", id, sentinel.ErrInvalidState)
	}
	return nil
}

func (s *Postgres) Get(ctx context.Context, id uuid.UUID) (*syncrun.Run, error) {
	query := `
		SELECT id, run_type, status, options, result, error,
			started_at, completed_at, duration_ms
		FROM sync_runs
		WHERE id = $1
	`

	var (
		run        syncrun.Run
		runType    string
		status     string
		errMsg     sql.NullString
		durationMs sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID,
		&runType,
		&status,
		&run.Options,
		&run.Result,
		&errMsg,
		&run.StartedAt,
		&run.CompletedAt,
		&durationMs,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("sync run %s: %w", id, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("get sync run: %w", err)
	}

	run.Type = syncrun.Type(runType)
	run.Status = syncrun.Status(status)
	run.Error = errMsg.String
	if durationMs.Valid {
		run.Duration = time.Duration(durationMs.Int64) * time.Millisecond
	}
	return &run, nil
}
