package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/storm-data-reliability/internal/domain"
	"github.com/couchcryptid/storm-data-reliability/internal/observability"
	"github.com/couchcryptid/storm-data-reliability/internal/reliability"
)

// Extractor reads the raw report rows for one run.
type Extractor interface {
	Extract(ctx context.Context) ([]domain.RawRecord, error)
}

// Loader writes a computed snapshot to its destination.
type Loader interface {
	Load(ctx context.Context, snap domain.Snapshot) error
}

// Loaders fans a snapshot out to several destinations. Every loader is
// attempted; failures are joined.
type Loaders []Loader

// Load implements Loader.
func (ls Loaders) Load(ctx context.Context, snap domain.Snapshot) error {
	var errs []error
	for _, l := range ls {
		if err := l.Load(ctx, snap); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithDeclared sets the neighborhood ids that always receive a profile.
func WithDeclared(ids []string) Option {
	return func(p *Pipeline) { p.declared = append([]string(nil), ids...) }
}

// WithRefreshInterval makes Run recompute on the given period. Zero runs once.
func WithRefreshInterval(d time.Duration) Option {
	return func(p *Pipeline) { p.interval = d }
}

// WithClock sets the clock driving the refresh ticker.
func WithClock(c clockwork.Clock) Option {
	return func(p *Pipeline) { p.clock = c }
}

// Pipeline orchestrates the extract-compute-load cycle and keeps the latest
// snapshot for readers.
type Pipeline struct {
	extractor Extractor
	engine    *reliability.Engine
	loader    Loader
	logger    *slog.Logger
	metrics   *observability.Metrics
	declared  []string
	interval  time.Duration
	clock     clockwork.Clock

	latest atomic.Pointer[domain.Snapshot]
	ready  atomic.Bool
}

// New creates a Pipeline with the given stages and observability. A nil
// loader keeps snapshots in memory only.
func New(e Extractor, engine *reliability.Engine, l Loader, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Pipeline {
	if l == nil {
		l = Loaders(nil)
	}
	p := &Pipeline{
		extractor: e,
		engine:    engine,
		loader:    l,
		logger:    logger,
		metrics:   metrics,
		clock:     clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CheckReadiness returns nil once a snapshot has been computed, or an error
// describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no snapshot has been computed yet")
	}
	return nil
}

// Latest returns the most recent snapshot, or nil before the first run.
func (p *Pipeline) Latest() *domain.Snapshot {
	return p.latest.Load()
}

// Compute turns raw rows into a snapshot without touching any loader.
func (p *Pipeline) Compute(records []domain.RawRecord) domain.Snapshot {
	reports, diags := domain.ParseRecords(records)
	result := p.engine.Run(reports, p.declared)
	diags = append(diags, result.Diagnostics...)

	return domain.Snapshot{
		GeneratedAt: domain.Now(),
		ReportCount: len(reports),
		Profiles:    result.Profiles,
		Uncertainty: result.Uncertainty,
		Series:      reliability.AllHourlySeries(reports),
		Diagnostics: diags,
	}
}

// RunOnce performs a single extract-compute-load cycle.
func (p *Pipeline) RunOnce(ctx context.Context) error {
	start := time.Now()

	records, err := p.extractor.Extract(ctx)
	if err != nil {
		p.metrics.RunErrors.Inc()
		return fmt.Errorf("extract reports: %w", err)
	}
	p.metrics.ReportsLoaded.Add(float64(len(records)))

	snap := p.Compute(records)
	p.latest.Store(&snap)
	p.ready.Store(true)

	if err := p.loader.Load(ctx, snap); err != nil {
		p.metrics.RunErrors.Inc()
		return fmt.Errorf("load snapshot: %w", err)
	}
	p.record(snap)

	p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	p.metrics.LastRunTimestamp.Set(float64(snap.GeneratedAt.Unix()))
	p.logger.Info("snapshot computed",
		"reports", snap.ReportCount,
		"profiles", len(snap.Profiles),
		"diagnostics", len(snap.Diagnostics),
		"duration", time.Since(start),
	)
	return nil
}

// record updates metrics and logs diagnostics for a delivered snapshot.
func (p *Pipeline) record(snap domain.Snapshot) {
	p.metrics.Neighborhoods.Set(float64(len(snap.Profiles)))
	p.metrics.ProfilesProduced.Add(float64(len(snap.Profiles)))
	for _, prof := range snap.Profiles {
		if prof.Placeholder {
			p.metrics.PlaceholderProfile.Inc()
		}
	}
	for _, d := range snap.Diagnostics {
		p.metrics.Diagnostics.WithLabelValues(string(d.Code)).Inc()
		switch d.Code {
		case domain.CodeMalformedTimestamp:
			p.metrics.MalformedValues.WithLabelValues("timestamp").Inc()
		case domain.CodeMalformedScore:
			p.metrics.MalformedValues.WithLabelValues("score").Inc()
		}
		p.logger.Debug("diagnostic",
			"code", d.Code,
			"neighborhood", d.Neighborhood,
			"axis", d.Axis,
			"field", d.Field,
			"message", d.Message,
		)
	}
}

// Run executes RunOnce, retrying failures with exponential backoff, and then
// repeats on the refresh interval until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "refresh_interval", p.interval)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	if !p.runWithRetry(ctx) {
		p.logger.Info("pipeline stopping", "reason", ctx.Err())
		return nil
	}
	if p.interval <= 0 {
		return nil
	}

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			if !p.runWithRetry(ctx) {
				p.logger.Info("pipeline stopping", "reason", ctx.Err())
				return nil
			}
		}
	}
}

// runWithRetry repeats RunOnce until it succeeds. Returns false if the
// context ended first.
func (p *Pipeline) runWithRetry(ctx context.Context) bool {
	backoff := initialBackoff
	for {
		if ctx.Err() != nil {
			return false
		}
		err := p.RunOnce(ctx)
		if err == nil {
			return true
		}
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("pipeline run failed", "error", err, "retry_in", backoff)
		if !retry.SleepWithContext(ctx, backoff) {
			return false
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}
}
