package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// warning poll pipeline.
type Metrics struct {
	Fetches        *prometheus.CounterVec // label: outcome={success,timeout,connection,bad_status,parse,circuit_open}
	FetchDuration  prometheus.Histogram
	PollCycles     *prometheus.CounterVec // label: outcome={success,failure}
	RecordsDropped prometheus.Counter
	PollerRunning  prometheus.Gauge
	LastPollTime   prometheus.Gauge

	// Per-group derived state gauges.
	ActiveWarnings *prometheus.GaugeVec // label: group
	HighestLevel   *prometheus.GaugeVec // label: group; value is the level priority (red=3 .. none=0)
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Fetches,
		m.FetchDuration,
		m.PollCycles,
		m.RecordsDropped,
		m.PollerRunning,
		m.LastPollTime,
		m.ActiveWarnings,
		m.HighestLevel,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "met_warnings",
			Name:      "feed_fetches_total",
			Help:      "Feed fetch attempts by outcome.",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "met_warnings",
			Name:      "feed_fetch_duration_seconds",
			Help:      "Duration of one feed HTTP request.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		PollCycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "met_warnings",
			Name:      "poll_cycles_total",
			Help:      "Completed poll cycles by outcome.",
		}, []string{"outcome"}),
		RecordsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "met_warnings",
			Name:      "records_dropped_total",
			Help:      "Malformed warning records dropped during normalization.",
		}),
		PollerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "met_warnings",
			Name:      "poller_running",
			Help:      "1 when the poll scheduler is active, 0 when shut down.",
		}),
		LastPollTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "met_warnings",
			Name:      "last_successful_poll_timestamp_seconds",
			Help:      "Unix time of the last successful poll cycle.",
		}),
		ActiveWarnings: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "met_warnings",
			Name:      "active_warnings",
			Help:      "Active warning count per configured area group.",
		}, []string{"group"}),
		HighestLevel: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "met_warnings",
			Name:      "highest_level_priority",
			Help:      "Highest active level per area group as its priority rank (red=3, none=0).",
		}, []string{"group"}),
	}
}
