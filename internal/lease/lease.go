// Package lease provides short-lived per-external-id creation leases. A lease
// is the polite guard against two overlapping runs creating the same judge;
// the unique constraint in the judges store remains the backstop.
package lease

import (
	"context"
	"time"
)

// Lease grants exclusive creation rights for an external id for a bounded
// time. Acquire returns false when another holder has the id.
type Lease interface {
	Acquire(ctx context.Context, externalID string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, externalID string) error
}
