package judges

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// StaleQuery selects entities eligible for a refresh pass. Now is passed in
// explicitly so staleness comparisons stay deterministic in tests.
type StaleQuery struct {
	Window       time.Duration
	Jurisdiction string
	Force        bool
	Limit        int
	Now          time.Time
}

// Store is the local-mirror port consumed by the sync engine.
//
// Create must be atomic with respect to the unique external id: a concurrent
// insert for the same id yields sentinel.ErrConflict, never a duplicate row.
// Lookups wrap sentinel.ErrNotFound when no row matches.
type Store interface {
	FindByExternalID(ctx context.Context, externalID string) (*Judge, error)
	Create(ctx context.Context, judge *Judge) (uuid.UUID, error)
	Update(ctx context.Context, judge *Judge) error
	UpdateProfile(ctx context.Context, id uuid.UUID, profile Profile) error

	// ListStale returns up to q.Limit judges with an external id whose last
	// sync predates q.Now - q.Window (or all matching when q.Force).
	ListStale(ctx context.Context, q StaleQuery) ([]Judge, error)

	// ListExternalIDs pages through all known external ids for discovery
	// dedup. Ordering must be stable across pages within one invocation.
	ListExternalIDs(ctx context.Context, offset, limit int) ([]string, error)
}
