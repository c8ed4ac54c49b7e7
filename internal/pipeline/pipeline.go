// Package pipeline orchestrates one poll cycle: fetch the feed, normalize
// it once, then derive sensor state per configured area group.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/eireweather/met-warnings-service/internal/domain"
	"github.com/eireweather/met-warnings-service/internal/observability"
)

// Fetcher retrieves the raw warning batch from the upstream feed.
type Fetcher interface {
	Fetch(ctx context.Context) ([]domain.RawWarning, error)
}

// StateSink receives the full per-group result set of a successful cycle.
type StateSink interface {
	ReplaceAll(states []domain.DerivedSensorState)
}

// Publisher forwards derived states to an external consumer, e.g. a Kafka
// topic the home-automation platform subscribes to.
type Publisher interface {
	PublishStates(ctx context.Context, states []domain.DerivedSensorState) error
}

// Refresher runs the stateless fetch-normalize-derive transformation for
// every configured area group. It owns no schedule; the scheduler calls
// Refresh at its own cadence.
type Refresher struct {
	fetcher   Fetcher
	groups    []domain.AreaGroup
	sink      StateSink
	publisher Publisher // nil when publishing is disabled
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// New creates a Refresher. Pass a nil publisher to disable state publishing.
func New(fetcher Fetcher, groups []domain.AreaGroup, sink StateSink, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics) *Refresher {
	return &Refresher{
		fetcher:   fetcher,
		groups:    groups,
		sink:      sink,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once at least one cycle has completed
// successfully, so the service only reports ready with real state loaded.
func (r *Refresher) CheckReadiness(_ context.Context) error {
	if !r.ready.Load() {
		return errors.New("no successful poll cycle yet")
	}
	return nil
}

// Refresh executes one poll cycle. On fetch failure the sink is left
// untouched and the error is returned for the scheduler to log: a
// transient outage must not erase last-known warnings. Zero warnings is
// valid steady-state output, never an error.
func (r *Refresher) Refresh(ctx context.Context) error {
	raws, err := r.fetcher.Fetch(ctx)
	if err != nil {
		r.metrics.PollCycles.WithLabelValues("failure").Inc()
		return err
	}

	warnings := domain.Normalize(raws, r.logger)
	if dropped := len(raws) - len(warnings); dropped > 0 {
		r.metrics.RecordsDropped.Add(float64(dropped))
	}

	// One instant per cycle: every group evaluates activity against the
	// same now, and group derivation shares nothing but the immutable
	// normalized slice, so the fan-out can run in parallel.
	now := domain.Now()
	states := make([]domain.DerivedSensorState, len(r.groups))

	var wg sync.WaitGroup
	for i, group := range r.groups {
		wg.Add(1)
		go func(i int, group domain.AreaGroup) {
			defer wg.Done()
			matched := domain.FilterByGroup(warnings, group)
			active := domain.ActiveWarnings(matched, now)
			states[i] = domain.BuildSensorState(group, active)
		}(i, group)
	}
	wg.Wait()

	if ctx.Err() != nil {
		// Cancelled mid-cycle: discard, never publish partial results.
		r.metrics.PollCycles.WithLabelValues("failure").Inc()
		return ctx.Err()
	}

	r.sink.ReplaceAll(states)
	r.observeStates(states)

	if r.publisher != nil {
		if err := r.publisher.PublishStates(ctx, states); err != nil {
			// Publishing is best-effort: local sensor state already
			// updated, so the cycle itself still counts as a success.
			r.logger.Error("publish sensor states failed", "error", err)
		}
	}

	r.metrics.PollCycles.WithLabelValues("success").Inc()
	r.metrics.LastPollTime.Set(float64(now.Unix()))
	r.ready.Store(true)

	r.logger.Info("poll cycle complete",
		"warnings", len(warnings),
		"groups", len(states),
	)
	return nil
}

func (r *Refresher) observeStates(states []domain.DerivedSensorState) {
	for _, st := range states {
		r.metrics.ActiveWarnings.WithLabelValues(st.Group).Set(float64(st.ActiveCount))
		r.metrics.HighestLevel.WithLabelValues(st.Group).Set(float64(st.HighestLevel.Priority()))
	}
}
