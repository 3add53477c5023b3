package sync

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	// DefaultBatchSize is used when the caller does not request a chunk size.
	DefaultBatchSize = 10
	// MaxBatchSize is the hard ceiling on chunk size, protecting the shared
	// upstream rate limit.
	MaxBatchSize = 25

	// LimitReachedMarker is appended to a batch's error list when the run
	// budget stops work early. It is a soft stop, not a failure.
	LimitReachedMarker = "run limit reached"
)

// BatchStats aggregates one batch pass. Processed counts only entities whose
// reconciliation completed without error; throwing entities land in Errors
// instead.
type BatchStats struct {
	Processed int
	Updated   int
	Created   int
	Enhanced  int
	Errors    []string
}

func (s *BatchStats) absorb(out Outcome) {
	if out.Updated {
		s.Updated++
	}
	if out.Created {
		s.Created++
	}
	if out.Enhanced {
		s.Enhanced++
	}
}

// BatchProcessor runs the reconciler over an id list in sequential chunks.
// Chunks are never processed in parallel: the upstream rate limit is shared,
// and sequential execution keeps idempotency reasoning simple.
type BatchProcessor struct {
	reconciler *Reconciler
	budget     *Budget
	chunkDelay time.Duration
	logger     *slog.Logger
}

// Process reconciles every id, isolating per-entity failures. The budget is
// consulted before each entity; when it signals abort the batch stops
// immediately, even mid-chunk, and records the soft-stop marker.
func (p *BatchProcessor) Process(ctx context.Context, ids []string, batchSize int) BatchStats {
	var stats BatchStats
	size := clampBatchSize(batchSize)

	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}

		for _, id := range ids[start:end] {
			if p.budget.ShouldAbort() {
				stats.Errors = append(stats.Errors, LimitReachedMarker)
				return stats
			}

			out, err := p.reconciler.Reconcile(ctx, id)
			if err != nil {
				stats.Errors = append(stats.Errors, fmt.Sprintf("judge %s: %v", id, err))
				p.logger.WarnContext(ctx, "reconciliation failed", "external_id", id, "error", err)
				continue
			}
			p.budget.RecordProcessed()
			stats.Processed++
			stats.absorb(out)
		}

		if end < len(ids) {
			if p.budget.ShouldAbort() {
				stats.Errors = append(stats.Errors, LimitReachedMarker)
				return stats
			}
			sleep(ctx, p.chunkDelay)
		}
	}
	return stats
}

func clampBatchSize(n int) int {
	switch {
	case n <= 0:
		return DefaultBatchSize
	case n > MaxBatchSize:
		return MaxBatchSize
	default:
		return n
	}
}

// sleep waits for the rate-limit delay, returning early on context
// cancellation. In-flight reconciliations surface the cancellation on their
// next network call.
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
