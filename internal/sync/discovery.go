package sync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"benchwatch/internal/courtlistener"
	"benchwatch/internal/judges"
)

// MinDiscoverCap is the floor on how many new ids a discovery pass may
// collect, regardless of the requested cap.
const MinDiscoverCap = 50

// DiscoveryWalker finds upstream ids not yet mirrored locally. It preloads
// the complete known-id set, then walks the changed-records listing by
// continuation cursor until the cap, the listing, or the budget runs out.
type DiscoveryWalker struct {
	upstream      courtlistener.Client
	store         judges.Store
	budget        *Budget
	pageDelay     time.Duration
	knownPageSize int
	logger        *slog.Logger
	pagesFetched  int
}

// Discover returns up to `limit` new external ids, never more than the
// remaining creation budget. A listing failure mid-walk returns the ids
// found so far along with the error so the caller can still process them.
func (w *DiscoveryWalker) Discover(ctx context.Context, limit int, jurisdiction string) ([]string, error) {
	// The known-id set must be complete before any upstream comparison;
	// a partial set would misclassify existing judges as new.
	known, err := w.loadKnownIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load known external ids: %w", err)
	}

	seen := make(map[string]struct{})
	var found []string
	cursor := courtlistener.Cursor("")

	for {
		page, err := w.upstream.ListChanged(ctx, cursor, courtlistener.ListOptions{Jurisdiction: jurisdiction})
		if err != nil {
			return w.truncate(found, limit), fmt.Errorf("list changed judges: %w", err)
		}
		w.pagesFetched++

		for _, rec := range page.Records {
			if _, ok := known[rec.ID]; ok {
				continue
			}
			if _, ok := seen[rec.ID]; ok {
				continue
			}
			seen[rec.ID] = struct{}{}
			found = append(found, rec.ID)
			if len(found) >= limit {
				w.logger.DebugContext(ctx, "discovery cap reached",
					"found", len(found), "pages", w.pagesFetched)
				return w.truncate(found, limit), nil
			}
		}

		if page.Next == "" || w.budget.ShouldAbort() {
			break
		}
		cursor = page.Next
		sleep(ctx, w.pageDelay)
	}

	return w.truncate(found, limit), nil
}

// PagesFetched reports how many upstream pages the walk consumed.
func (w *DiscoveryWalker) PagesFetched() int { return w.pagesFetched }

// truncate bounds the result to min(limit, remaining creation budget) so the
// subsequent creation pass cannot exceed the create cap even under races
// with the other counters.
func (w *DiscoveryWalker) truncate(ids []string, limit int) []string {
	if remaining := w.budget.RemainingCreates(); remaining < limit {
		limit = remaining
	}
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids
}

func (w *DiscoveryWalker) loadKnownIDs(ctx context.Context) (map[string]struct{}, error) {
	pageSize := w.knownPageSize
	if pageSize <= 0 {
		pageSize = 1000
	}

	known := make(map[string]struct{})
	for offset := 0; ; offset += pageSize {
		ids, err := w.store.ListExternalIDs(ctx, offset, pageSize)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			known[id] = struct{}{}
		}
		if len(ids) < pageSize {
			return known, nil
		}
	}
}

// resolveDiscoverCap applies the cap rule: the requested cap when given,
// otherwise the remaining creation budget, floored at MinDiscoverCap.
func resolveDiscoverCap(requested int, budget *Budget) int {
	limit := requested
	if limit <= 0 {
		limit = budget.RemainingCreates()
	}
	if limit < MinDiscoverCap {
		limit = MinDiscoverCap
	}
	return limit
}
