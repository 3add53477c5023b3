// Package sync implements the entity synchronization engine: it reconciles
// the local judge mirror against the authoritative court-records API within a
// hard per-invocation work budget.
package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"benchwatch/internal/courtlistener"
	"benchwatch/internal/events"
	"benchwatch/internal/judges"
	"benchwatch/internal/lease"
	"benchwatch/internal/platform/metrics"
	"benchwatch/internal/syncrun"
	pstrings "benchwatch/pkg/platform/strings"
)

// Options selects what one invocation does. An explicit id list switches the
// run to targeted mode, skipping the refresh and discovery passes.
type Options struct {
	BatchSize    int      `json:"batch_size,omitempty"`
	Jurisdiction string   `json:"jurisdiction,omitempty"`
	ForceRefresh bool     `json:"force_refresh,omitempty"`
	JudgeIDs     []string `json:"judge_ids,omitempty"`
	DiscoverCap  int      `json:"discover_cap,omitempty"`
}

// Result is the aggregate outcome of one invocation. Success means the error
// list is empty; a run can report useful work alongside failures, in which
// case callers re-invoke to pick up what remains.
type Result struct {
	RunID      uuid.UUID `json:"run_id"`
	Processed  int       `json:"processed"`
	Updated    int       `json:"updated"`
	Created    int       `json:"created"`
	Enhanced   int       `json:"enhanced"`
	Errors     []string  `json:"errors"`
	DurationMs int64     `json:"duration_ms"`
	Success    bool      `json:"success"`
}

func (r *Result) absorb(stats BatchStats) {
	r.Processed += stats.Processed
	r.Updated += stats.Updated
	r.Created += stats.Created
	r.Enhanced += stats.Enhanced
	r.Errors = append(r.Errors, stats.Errors...)
}

// Config tunes the engine. DefaultConfig matches the production schedule.
type Config struct {
	Limits          Limits
	StalenessWindow time.Duration
	StaleLimit      int
	ChunkDelay      time.Duration
	PageDelay       time.Duration
	KnownIDPageSize int
	LeaseTTL        time.Duration
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		Limits:          DefaultLimits(),
		StalenessWindow: 7 * 24 * time.Hour,
		StaleLimit:      100,
		ChunkDelay:      500 * time.Millisecond,
		PageDelay:       250 * time.Millisecond,
		KnownIDPageSize: 1000,
		LeaseTTL:        5 * time.Minute,
	}
}

// Service is the sync orchestrator, the engine's only inbound surface.
type Service struct {
	upstream courtlistener.Client
	store    judges.Store
	runs     *syncrun.Recorder
	leases   lease.Lease
	events   events.Publisher
	logger   *slog.Logger
	metrics  *metrics.Metrics
	cfg      Config
	tracer   trace.Tracer
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithLeases enables per-external-id creation leases.
func WithLeases(leases lease.Lease) Option {
	return func(s *Service) { s.leases = leases }
}

// WithEvents sets the change-notification publisher.
func WithEvents(publisher events.Publisher) Option {
	return func(s *Service) { s.events = publisher }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithConfig overrides the engine defaults.
func WithConfig(cfg Config) Option {
	return func(s *Service) { s.cfg = cfg }
}

// New wires the orchestrator. The upstream client, judge store, and run
// recorder are required; everything else is optional.
func New(upstream courtlistener.Client, store judges.Store, runs *syncrun.Recorder, opts ...Option) (*Service, error) {
	if upstream == nil {
		return nil, fmt.Errorf("upstream client is required")
	}
	if store == nil {
		return nil, fmt.Errorf("judge store is required")
	}
	if runs == nil {
		return nil, fmt.Errorf("run recorder is required")
	}

	svc := &Service{
		upstream: upstream,
		store:    store,
		runs:     runs,
		events:   events.Noop{},
		cfg:      DefaultConfig(),
		tracer:   otel.Tracer("benchwatch/sync"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.New(slog.DiscardHandler)
	}
	return svc, nil
}

// Sync performs one bounded reconciliation run. It never returns an error:
// per-entity failures accumulate in Result.Errors, and anything that escapes
// a pass is caught here, recorded on the run's audit row, and surfaced the
// same way.
func (s *Service) Sync(ctx context.Context, opts Options) *Result {
	start := time.Now()
	runID := uuid.New()
	result := &Result{RunID: runID, Errors: []string{}}

	runType := syncrun.TypeScheduled
	if len(opts.JudgeIDs) > 0 {
		runType = syncrun.TypeTargeted
	}

	optionsSnapshot, _ := json.Marshal(opts)
	s.runs.Started(ctx, runID, runType, optionsSnapshot, start)
	if s.metrics != nil {
		s.metrics.RunsStarted.Inc()
	}

	ctx, span := s.tracer.Start(ctx, "sync.run",
		trace.WithAttributes(attribute.String("run.type", string(runType))))
	defer span.End()

	failed := false
	func() {
		defer func() {
			if rec := recover(); rec != nil {
				failed = true
				result.Errors = append(result.Errors, fmt.Sprintf("sync run aborted: %v", rec))
				s.logger.ErrorContext(ctx, "sync run panicked", "run_id", runID, "panic", rec)
			}
		}()
		s.run(ctx, opts, result)
	}()

	duration := time.Since(start)
	result.DurationMs = duration.Milliseconds()
	result.Success = len(result.Errors) == 0

	// Terminal audit write happens regardless of how the run ended.
	if failed {
		s.runs.Failed(ctx, runID, strings.Join(result.Errors, "; "), duration)
		if s.metrics != nil {
			s.metrics.RunsFailed.Inc()
		}
	} else {
		payload, _ := json.Marshal(result)
		s.runs.Completed(ctx, runID, payload, duration)
		if s.metrics != nil {
			s.metrics.RunsCompleted.Inc()
		}
	}
	s.observe(result, duration)

	s.logger.InfoContext(ctx, "sync run finished",
		"run_id", runID,
		"type", runType,
		"processed", result.Processed,
		"created", result.Created,
		"updated", result.Updated,
		"enhanced", result.Enhanced,
		"errors", len(result.Errors),
		"duration_ms", result.DurationMs,
	)
	return result
}

// run drives the passes. Targeted runs reconcile only the explicit list;
// scheduled runs refresh stale mirrors, then discover new upstream judges if
// the budget allows.
func (s *Service) run(ctx context.Context, opts Options, result *Result) {
	budget := NewBudget(s.cfg.Limits)
	reconciler := &Reconciler{
		upstream: s.upstream,
		store:    s.store,
		budget:   budget,
		leases:   s.leases,
		events:   s.events,
		logger:   s.logger,
		leaseTTL: s.cfg.LeaseTTL,
	}
	batch := &BatchProcessor{
		reconciler: reconciler,
		budget:     budget,
		chunkDelay: s.cfg.ChunkDelay,
		logger:     s.logger,
	}

	if len(opts.JudgeIDs) > 0 {
		ctx, span := s.tracer.Start(ctx, "sync.targeted")
		defer span.End()
		ids := pstrings.DedupeAndTrim(opts.JudgeIDs)
		result.absorb(batch.Process(ctx, ids, opts.BatchSize))
		return
	}

	s.refreshPass(ctx, opts, batch, result)

	if budget.ShouldAbort() {
		return
	}
	s.discoveryPass(ctx, opts, batch, budget, result)
}

func (s *Service) refreshPass(ctx context.Context, opts Options, batch *BatchProcessor, result *Result) {
	ctx, span := s.tracer.Start(ctx, "sync.refresh")
	defer span.End()

	selector := &StalenessSelector{
		store:  s.store,
		window: s.cfg.StalenessWindow,
		limit:  s.cfg.StaleLimit,
	}
	stale, err := selector.Select(ctx, opts)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return
	}
	if len(stale) == 0 {
		return
	}
	result.absorb(batch.Process(ctx, stale, opts.BatchSize))
}

func (s *Service) discoveryPass(ctx context.Context, opts Options, batch *BatchProcessor, budget *Budget, result *Result) {
	ctx, span := s.tracer.Start(ctx, "sync.discovery")
	defer span.End()

	walker := &DiscoveryWalker{
		upstream:      s.upstream,
		store:         s.store,
		budget:        budget,
		pageDelay:     s.cfg.PageDelay,
		knownPageSize: s.cfg.KnownIDPageSize,
		logger:        s.logger,
	}
	limit := resolveDiscoverCap(opts.DiscoverCap, budget)

	discovered, err := walker.Discover(ctx, limit, opts.Jurisdiction)
	if s.metrics != nil {
		s.metrics.DiscoveryPages.Add(float64(walker.PagesFetched()))
	}
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
	}
	if len(discovered) == 0 {
		return
	}
	result.absorb(batch.Process(ctx, discovered, opts.BatchSize))
}

func (s *Service) observe(result *Result, duration time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.RunDuration.Observe(duration.Seconds())
	s.metrics.JudgesCreated.Add(float64(result.Created))
	s.metrics.JudgesUpdated.Add(float64(result.Updated))
	s.metrics.JudgesEnhanced.Add(float64(result.Enhanced))
	s.metrics.SyncErrors.Add(float64(len(result.Errors)))
}
