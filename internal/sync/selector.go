package sync

import (
	"context"
	"fmt"
	"time"

	"benchwatch/internal/judges"
	"benchwatch/pkg/requestcontext"
)

// StalenessSelector picks mirrored judges eligible for refresh: external id
// present, optional jurisdiction filter, and last sync older than the window
// unless the run forces a refresh. Zero matches is a normal outcome.
type StalenessSelector struct {
	store  judges.Store
	window time.Duration
	limit  int
}

// Select returns the external ids of up to `limit` stale judges.
func (s *StalenessSelector) Select(ctx context.Context, opts Options) ([]string, error) {
	stale, err := s.store.ListStale(ctx, judges.StaleQuery{
		Window:       s.window,
		Jurisdiction: opts.Jurisdiction,
		Force:        opts.ForceRefresh,
		Limit:        s.limit,
		Now:          requestcontext.Now(ctx),
	})
	if err != nil {
		return nil, fmt.Errorf("select stale judges: %w", err)
	}

	ids := make([]string, 0, len(stale))
	for _, judge := range stale {
		ids = append(ids, judge.CourtListenerID)
	}
	return ids, nil
}
