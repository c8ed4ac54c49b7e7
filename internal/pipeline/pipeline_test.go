package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eireweather/met-warnings-service/internal/domain"
	"github.com/eireweather/met-warnings-service/internal/observability"
	"github.com/eireweather/met-warnings-service/internal/pipeline"
)

type stubFetcher struct {
	raws []domain.RawWarning
	err  error
}

func (s *stubFetcher) Fetch(context.Context) ([]domain.RawWarning, error) {
	return s.raws, s.err
}

type recordingSink struct {
	replaced int
	states   []domain.DerivedSensorState
}

func (s *recordingSink) ReplaceAll(states []domain.DerivedSensorState) {
	s.replaced++
	s.states = states
}

type stubPublisher struct {
	calls  int
	states []domain.DerivedSensorState
	err    error
}

func (p *stubPublisher) PublishStates(_ context.Context, states []domain.DerivedSensorState) error {
	p.calls++
	p.states = states
	return p.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustGroup(t *testing.T, name, selector string) domain.AreaGroup {
	t.Helper()
	g, err := domain.NewAreaGroup(name, selector)
	require.NoError(t, err)
	return g
}

func TestRefresh(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(now))
	defer domain.SetClock(nil)

	feed := []domain.RawWarning{
		{
			ID:      "w1",
			Level:   "Orange",
			Regions: []string{"Dublin"},
			Issued:  now.Add(-time.Hour).Format(time.RFC3339),
			Expiry:  now.Add(time.Hour).Format(time.RFC3339),
		},
		{
			ID:    "w2",
			Level: "Yellow",
			// No id would be dropped; this one is merely expired.
			Issued: now.Add(-3 * time.Hour).Format(time.RFC3339),
			Expiry: now.Add(-time.Hour).Format(time.RFC3339),
		},
	}

	t.Run("successful cycle replaces sink state", func(t *testing.T) {
		sink := &recordingSink{}
		groups := []domain.AreaGroup{
			mustGroup(t, "ireland", "*"),
			mustGroup(t, "dublin", "Dublin"),
		}
		r := pipeline.New(&stubFetcher{raws: feed}, groups, sink, nil, testLogger(), observability.NewMetricsForTesting())

		require.NoError(t, r.Refresh(context.Background()))

		require.Equal(t, 1, sink.replaced)
		require.Len(t, sink.states, 2)
		assert.Equal(t, "ireland", sink.states[0].Group)
		assert.Equal(t, 1, sink.states[0].ActiveCount)
		assert.Equal(t, "dublin", sink.states[1].Group)
		assert.Equal(t, 1, sink.states[1].ActiveCount)
		assert.Equal(t, domain.LevelOrange, sink.states[1].HighestLevel)
	})

	t.Run("empty feed is a valid cycle", func(t *testing.T) {
		sink := &recordingSink{}
		groups := []domain.AreaGroup{mustGroup(t, "ireland", "*")}
		r := pipeline.New(&stubFetcher{}, groups, sink, nil, testLogger(), observability.NewMetricsForTesting())

		require.NoError(t, r.Refresh(context.Background()))

		require.Equal(t, 1, sink.replaced)
		require.Len(t, sink.states, 1)
		assert.Equal(t, 0, sink.states[0].ActiveCount)
		assert.Equal(t, domain.LevelNone, sink.states[0].HighestLevel)
	})

	t.Run("fetch failure leaves sink untouched", func(t *testing.T) {
		sink := &recordingSink{}
		groups := []domain.AreaGroup{mustGroup(t, "ireland", "*")}
		fetchErr := errors.New("upstream unreachable")
		r := pipeline.New(&stubFetcher{err: fetchErr}, groups, sink, nil, testLogger(), observability.NewMetricsForTesting())

		err := r.Refresh(context.Background())
		assert.ErrorIs(t, err, fetchErr)
		assert.Zero(t, sink.replaced)
	})

	t.Run("cancelled context discards results", func(t *testing.T) {
		sink := &recordingSink{}
		groups := []domain.AreaGroup{mustGroup(t, "ireland", "*")}
		r := pipeline.New(&stubFetcher{raws: feed}, groups, sink, nil, testLogger(), observability.NewMetricsForTesting())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := r.Refresh(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, sink.replaced)
	})

	t.Run("publisher receives the same snapshot", func(t *testing.T) {
		sink := &recordingSink{}
		pub := &stubPublisher{}
		groups := []domain.AreaGroup{mustGroup(t, "ireland", "*")}
		r := pipeline.New(&stubFetcher{raws: feed}, groups, sink, pub, testLogger(), observability.NewMetricsForTesting())

		require.NoError(t, r.Refresh(context.Background()))

		require.Equal(t, 1, pub.calls)
		assert.Equal(t, sink.states, pub.states)
	})

	t.Run("publish failure does not fail the cycle", func(t *testing.T) {
		sink := &recordingSink{}
		pub := &stubPublisher{err: errors.New("broker down")}
		groups := []domain.AreaGroup{mustGroup(t, "ireland", "*")}
		r := pipeline.New(&stubFetcher{raws: feed}, groups, sink, pub, testLogger(), observability.NewMetricsForTesting())

		require.NoError(t, r.Refresh(context.Background()))
		assert.Equal(t, 1, sink.replaced)
	})
}

func TestCheckReadiness(t *testing.T) {
	sink := &recordingSink{}
	groups := []domain.AreaGroup{mustGroup(t, "ireland", "*")}
	r := pipeline.New(&stubFetcher{}, groups, sink, nil, testLogger(), observability.NewMetricsForTesting())

	assert.Error(t, r.CheckReadiness(context.Background()))

	require.NoError(t, r.Refresh(context.Background()))
	assert.NoError(t, r.CheckReadiness(context.Background()))
}

func TestCheckReadinessStaysReadyAfterFailure(t *testing.T) {
	sink := &recordingSink{}
	groups := []domain.AreaGroup{mustGroup(t, "ireland", "*")}
	fetcher := &stubFetcher{}
	r := pipeline.New(fetcher, groups, sink, nil, testLogger(), observability.NewMetricsForTesting())

	require.NoError(t, r.Refresh(context.Background()))

	fetcher.err = errors.New("upstream unreachable")
	require.Error(t, r.Refresh(context.Background()))

	// Last-known state is still being served, so readiness holds.
	assert.NoError(t, r.CheckReadiness(context.Background()))
}
