package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"benchwatch/internal/courtlistener"
	"benchwatch/internal/events"
	"benchwatch/internal/judges"
	"benchwatch/internal/lease"
	"benchwatch/pkg/platform/sentinel"
	"benchwatch/pkg/requestcontext"
)

// Outcome describes what one reconciliation did. The all-false value is a
// valid no-op, returned when the creation budget is exhausted or another run
// holds the creation lease.
type Outcome struct {
	Updated  bool
	Created  bool
	Enhanced bool
}

// Reconciler brings one judge mirror in line with upstream:
// fetch-by-id, find-or-create, then best-effort profile enhancement.
// Reconciliation is idempotent and safe to re-run; at most one row write plus
// one enhancement write happen per call, with no transaction across the two.
type Reconciler struct {
	upstream courtlistener.Client
	store    judges.Store
	budget   *Budget
	leases   lease.Lease
	events   events.Publisher
	logger   *slog.Logger
	leaseTTL time.Duration
}

// Reconcile syncs a single external id. Errors are per-entity: callers catch
// them and continue with the rest of the batch.
func (r *Reconciler) Reconcile(ctx context.Context, externalID string) (Outcome, error) {
	rec, err := r.upstream.GetJudge(ctx, externalID)
	if err != nil {
		return Outcome{}, fmt.Errorf("fetch judge %s: %w", externalID, err)
	}

	now := requestcontext.Now(ctx)
	existing, err := r.store.FindByExternalID(ctx, externalID)
	switch {
	case err == nil:
		return r.update(ctx, existing, rec, now)
	case errors.Is(err, sentinel.ErrNotFound):
		return r.create(ctx, rec, now)
	default:
		return Outcome{}, fmt.Errorf("lookup judge %s: %w", externalID, err)
	}
}

func (r *Reconciler) update(ctx context.Context, existing *judges.Judge, rec *courtlistener.JudgeRecord, now time.Time) (Outcome, error) {
	existing.ApplyRecord(rec, now)
	if err := r.store.Update(ctx, existing); err != nil {
		return Outcome{}, fmt.Errorf("update judge %s: %w", rec.ID, err)
	}
	enhanced := r.enhance(ctx, existing.ID, rec)
	r.notify(ctx, events.ActionJudgeUpdated, existing.ID, rec.ID, now)
	return Outcome{Updated: true, Enhanced: enhanced}, nil
}

func (r *Reconciler) create(ctx context.Context, rec *courtlistener.JudgeRecord, now time.Time) (Outcome, error) {
	if r.budget.WouldExceedCreates() {
		return Outcome{}, nil
	}

	if r.leases != nil {
		acquired, err := r.leases.Acquire(ctx, rec.ID, r.leaseTTL)
		if err != nil {
			// The unique constraint below still prevents duplicates.
			r.logger.WarnContext(ctx, "creation lease unavailable",
				"external_id", rec.ID, "error", err)
		} else if !acquired {
			// Another run is creating this judge; skip it this invocation.
			return Outcome{}, nil
		} else {
			defer func() {
				if err := r.leases.Release(ctx, rec.ID); err != nil {
					r.logger.WarnContext(ctx, "lease release failed",
						"external_id", rec.ID, "error", err)
				}
			}()
		}
	}

	judge := judges.FromRecord(rec, now)
	id, err := r.store.Create(ctx, &judge)
	if errors.Is(err, sentinel.ErrConflict) {
		// Lost the creation race; refresh the winner's row instead.
		existing, findErr := r.store.FindByExternalID(ctx, rec.ID)
		if findErr != nil {
			return Outcome{}, fmt.Errorf("lookup judge %s after create conflict: %w", rec.ID, findErr)
		}
		return r.update(ctx, existing, rec, now)
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("create judge %s: %w", rec.ID, err)
	}

	r.budget.RecordCreated()
	enhanced := r.enhance(ctx, id, rec)
	r.notify(ctx, events.ActionJudgeCreated, id, rec.ID, now)
	return Outcome{Created: true, Enhanced: enhanced}, nil
}

// enhance derives and stores supplementary profile fields. Failures are
// logged and absorbed: the judge row stays created/updated but unenhanced,
// and the next scheduled refresh retries.
func (r *Reconciler) enhance(ctx context.Context, id uuid.UUID, rec *courtlistener.JudgeRecord) bool {
	profile, err := judges.BuildProfile(rec)
	if err != nil {
		r.logger.DebugContext(ctx, "profile enhancement skipped",
			"external_id", rec.ID, "reason", err)
		return false
	}
	if err := r.store.UpdateProfile(ctx, id, profile); err != nil {
		r.logger.WarnContext(ctx, "profile enhancement failed",
			"external_id", rec.ID, "error", err)
		return false
	}
	return true
}

func (r *Reconciler) notify(ctx context.Context, action string, id uuid.UUID, externalID string, now time.Time) {
	if r.events == nil {
		return
	}
	event := events.Event{
		Action:     action,
		JudgeID:    id.String(),
		ExternalID: externalID,
		OccurredAt: now,
	}
	if err := r.events.Publish(ctx, event); err != nil {
		r.logger.WarnContext(ctx, "change event publish failed",
			"action", action, "external_id", externalID, "error", err)
	}
}
