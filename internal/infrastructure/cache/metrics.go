package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type cacheMetrics struct {
	hits          prometheus.Counter
	misses        prometheus.Counter
	errors        prometheus.Counter
	invalidations prometheus.Counter
	staleWrites   prometheus.Counter
}

// newCacheMetrics builds the counters. A nil registerer yields unregistered
// counters, which tests rely on.
func newCacheMetrics(reg prometheus.Registerer) *cacheMetrics {
	factory := promauto.With(reg)
	return &cacheMetrics{
		hits: factory.NewCounter(prometheus.CounterOpts{
			Name: "crew_query_cache_hits_total",
			Help: "Query cache lookups served from Redis.",
		}),
		misses: factory.NewCounter(prometheus.CounterOpts{
			Name: "crew_query_cache_misses_total",
			Help: "Query cache lookups that ran the loader.",
		}),
		errors: factory.NewCounter(prometheus.CounterOpts{
			Name: "crew_query_cache_errors_total",
			Help: "Redis failures that degraded to the loader.",
		}),
		invalidations: factory.NewCounter(prometheus.CounterOpts{
			Name: "crew_query_cache_invalidations_total",
			Help: "Tag invalidations performed.",
		}),
		staleWrites: factory.NewCounter(prometheus.CounterOpts{
			Name: "crew_query_cache_stale_writes_skipped_total",
			Help: "Loaded results not cached because a tag was invalidated during the load.",
		}),
	}
}
