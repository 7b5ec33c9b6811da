package cache

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the prometheus counters for a Store. A nil *Metrics records nothing.
type Metrics struct {
	queries       *prometheus.CounterVec
	fetches       *prometheus.CounterVec
	invalidations *prometheus.CounterVec
}

// NewMetrics creates and registers the cache counters.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lawdesk_cache_queries_total",
				Help: "Cache reads by tag and result (hit, miss, shared).",
			},
			[]string{"tag", "result"},
		),
		fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lawdesk_cache_fetches_total",
				Help: "Upstream fetches issued by the cache, by tag and outcome.",
			},
			[]string{"tag", "outcome"},
		),
		invalidations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lawdesk_cache_invalidated_entries_total",
				Help: "Cache entries moved to stale, by tag and trigger.",
			},
			[]string{"tag", "trigger"},
		),
	}

	for _, c := range []prometheus.Collector{m.queries, m.fetches, m.invalidations} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) query(tag Tag, result string) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(string(tag), result).Inc()
}

func (m *Metrics) fetch(tag Tag, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.fetches.WithLabelValues(string(tag), outcome).Inc()
}

func (m *Metrics) invalidated(tag Tag, trigger string) {
	if m == nil {
		return
	}
	m.invalidations.WithLabelValues(string(tag), trigger).Inc()
}
