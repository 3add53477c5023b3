package syncrun

import (
	"context"

	"github.com/google/uuid"
)

// Store persists run audit records. Begin inserts the started row; Complete
// and Fail move it to a terminal state.
type Store interface {
	Begin(ctx context.Context, run Run) error
	Complete(ctx context.Context, id uuid.UUID, run Run) error
	Fail(ctx context.Context, id uuid.UUID, run Run) error
	Get(ctx context.Context, id uuid.UUID) (*Run, error)
}
