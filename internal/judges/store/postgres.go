// Package store provides PostgreSQL and in-memory implementations of the
// judges.Store port.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"benchwatch/internal/judges"
	"benchwatch/pkg/platform/sentinel"
)

// Postgres persists judge mirrors in PostgreSQL.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed judge store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const judgeColumns = `id, courtlistener_id, name, current_court, jurisdiction, position_type,
	raw, appointer, selection_method, education, service_start, last_synced_at, created_at`

func (s *Postgres) FindByExternalID(ctx context.Context, externalID string) (*judges.Judge, error) {
	query := `SELECT ` + judgeColumns + ` FROM judges WHERE courtlistener_id = $1`

	judge, err := scanJudge(s.db.QueryRowContext(ctx, query, externalID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("judge %s: %w", externalID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find judge by external id: %w", err)
	}
	return judge, nil
}

// Create inserts a new judge row. The unique constraint on courtlistener_id
// is the backstop against concurrent duplicate creation: a conflicting insert
// returns sentinel.ErrConflict and writes nothing.
func (s *Postgres) Create(ctx context.Context, judge *judges.Judge) (uuid.UUID, error) {
	if judge.ID == uuid.Nil {
		judge.ID = uuid.New()
	}

	query := `
		INSERT INTO judges (
			id, courtlistener_id, name, current_court, jurisdiction,
			position_type, raw, last_synced_at, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (courtlistener_id) DO NOTHING
		RETURNING id
	`

	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, query,
		judge.ID,
		judge.CourtListenerID,
		judge.Name,
		judge.CurrentCourt,
		judge.Jurisdiction,
		judge.PositionType,
		judge.Raw,
		judge.LastSyncedAt,
		judge.CreatedAt,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, fmt.Errorf("judge %s already exists: %w", judge.CourtListenerID, sentinel.ErrConflict)
		}
		return uuid.Nil, fmt.Errorf("insert judge: %w", err)
	}
	return id, nil
}

func (s *Postgres) Update(ctx context.Context, judge *judges.Judge) error {
	query := `
		UPDATE judges
		SET name = $2, current_court = $3, jurisdiction = $4,
			position_type = $5, raw = $6, last_synced_at = $7
		WHERE id = $1
	`

	res, err := s.db.ExecContext(ctx, query,
		judge.ID,
		judge.Name,
		judge.CurrentCourt,
		judge.Jurisdiction,
		judge.PositionType,
		judge.Raw,
		judge.LastSyncedAt,
	)
	if err != nil {
		return fmt.Errorf("update judge: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("judge %s: %w", judge.ID, sentinel.ErrNotFound)
	}
	return nil
}

func (s *Postgres) UpdateProfile(ctx context.Context, id uuid.UUID, profile judges.Profile) error {
	query := `
		UPDATE judges
		SET appointer = $2, selection_method = $3, education = $4, service_start = $5
		WHERE id = $1
	`

	res, err := s.db.ExecContext(ctx, query,
		id,
		profile.Appointer,
		profile.SelectionMethod,
		profile.Education,
		profile.ServiceStart,
	)
	if err != nil {
		return fmt.Errorf("update judge profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("judge %s: %w", id, sentinel.ErrNotFound)
	}
	return nil
}

func (s *Postgres) ListStale(ctx context.Context, q judges.StaleQuery) ([]judges.Judge, error) {
	query := `SELECT ` + judgeColumns + ` FROM judges WHERE courtlistener_id IS NOT NULL AND courtlistener_id <> ''`
	args := []any{}

	if q.Jurisdiction != "" {
		args = append(args, q.Jurisdiction)
		query += fmt.Sprintf(" AND jurisdiction = $%d", len(args))
	}
	if !q.Force {
		args = append(args, q.Now.Add(-q.Window))
		query += fmt.Sprintf(" AND last_synced_at < $%d", len(args))
	}
	args = append(args, q.Limit)
	query += fmt.Sprintf(" ORDER BY last_synced_at ASC LIMIT $%d", len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query stale judges: %w", err)
	}
	defer rows.Close()

	var result []judges.Judge
	for rows.Next() {
		judge, err := scanJudge(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stale judge: %w", err)
		}
		result = append(result, *judge)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stale judges: %w", err)
	}
	return result, nil
}

func (s *Postgres) ListExternalIDs(ctx context.Context, offset, limit int) ([]string, error) {
	query := `
		SELECT courtlistener_id FROM judges
		WHERE courtlistener_id IS NOT NULL AND courtlistener_id <> ''
		ORDER BY courtlistener_id
		OFFSET $1 LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("query external ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan external id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate external ids: %w", err)
	}
	return ids, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJudge(row rowScanner) (*judges.Judge, error) {
	var (
		j        judges.Judge
		external sql.NullString
	)
	err := row.Scan(
		&j.ID,
		&external,
		&j.Name,
		&j.CurrentCourt,
		&j.Jurisdiction,
		&j.PositionType,
		&j.Raw,
		&j.Profile.Appointer,
		&j.Profile.SelectionMethod,
		&j.Profile.Education,
		&j.Profile.ServiceStart,
		&j.LastSyncedAt,
		&j.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	j.CourtListenerID = external.String
	return &j, nil
}
