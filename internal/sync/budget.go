package sync

// Limits bounds the total work one invocation may perform. The caps exist to
// guarantee termination well inside the host's execution-time ceiling, not to
// respond to external cancellation.
type Limits struct {
	MaxProcessed int
	MaxCreated   int
}

// DefaultLimits returns the per-invocation work caps.
func DefaultLimits() Limits {
	return Limits{MaxProcessed: 250, MaxCreated: 150}
}

// Budget tracks one invocation's counters against its Limits. It is a
// cooperative cap consulted at fixed points by the batch processor, the
// reconciler, and the discovery walker; counters are never persisted and
// reset with every invocation. The engine is sequential, so Budget needs no
// locking.
type Budget struct {
	limits    Limits
	processed int
	created   int
}

// NewBudget starts a fresh budget. Zero or negative limits fall back to the
// defaults.
func NewBudget(limits Limits) *Budget {
	defaults := DefaultLimits()
	if limits.MaxProcessed <= 0 {
		limits.MaxProcessed = defaults.MaxProcessed
	}
	if limits.MaxCreated <= 0 {
		limits.MaxCreated = defaults.MaxCreated
	}
	return &Budget{limits: limits}
}

// RecordProcessed counts one completed (non-throwing) reconciliation.
func (b *Budget) RecordProcessed() { b.processed++ }

// RecordCreated counts one entity creation.
func (b *Budget) RecordCreated() { b.created++ }

// Processed returns the number of completed reconciliations so far.
func (b *Budget) Processed() int { return b.processed }

// Created returns the number of creations so far.
func (b *Budget) Created() int { return b.created }

// ShouldAbort reports whether either cap has been reached. Callers stop
// starting new work when it returns true; in-flight work finishes normally.
func (b *Budget) ShouldAbort() bool {
	return b.processed >= b.limits.MaxProcessed || b.created >= b.limits.MaxCreated
}

// WouldExceedCreates reports whether one more creation would breach the cap.
func (b *Budget) WouldExceedCreates() bool {
	return b.created >= b.limits.MaxCreated
}

// RemainingCreates returns how many creations the budget still allows.
func (b *Budget) RemainingCreates() int {
	remaining := b.limits.MaxCreated - b.created
	if remaining < 0 {
		return 0
	}
	return remaining
}
