// Package syncrun records the lifecycle of sync engine invocations.
package syncrun

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a run. Exactly one transition happens:
// started to completed, or started to failed. Both are terminal and the
// engine never retries a run.
type Status string

const (
	StatusStarted   Status = "started"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Type distinguishes how a run was triggered.
type Type string

const (
	TypeScheduled Type = "scheduled"
	TypeTargeted  Type = "targeted"
)

// Run is one audit record per engine invocation.
type Run struct {
	ID      uuid.UUID
	Type    Type
	Status  Status
	Options []byte // options snapshot, JSON
	Result  []byte // result payload on completion, JSON
	Error   string // message on failure

	StartedAt   time.Time
	CompletedAt *time.Time
	Duration    time.Duration
}
