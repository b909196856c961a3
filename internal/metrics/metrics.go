package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CacheHits counts response cache lookups answered from the cache
var CacheHits = promauto.NewCounter(prometheus.CounterOpts{
	Name: "streamhub_cache_hits_total",
	Help: "Number of API responses served from the response cache.",
})

// CacheMisses counts response cache lookups that fell through to the store
var CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
	Name: "streamhub_cache_misses_total",
	Help: "Number of API cache lookups that missed.",
})

// CacheInvalidations counts whole-cache invalidations triggered by writes
var CacheInvalidations = promauto.NewCounter(prometheus.CounterOpts{
	Name: "streamhub_cache_invalidations_total",
	Help: "Number of times the response cache was cleared after a write.",
})

// ViewsRecorded counts view increments accepted by the batcher
var ViewsRecorded = promauto.NewCounter(prometheus.CounterOpts{
	Name: "streamhub_views_recorded_total",
	Help: "Number of view increments accepted into the in-memory accumulator.",
})

// ViewsFlushed counts view increments written through to the store
var ViewsFlushed = promauto.NewCounter(prometheus.CounterOpts{
	Name: "streamhub_views_flushed_total",
	Help: "Number of view increments successfully flushed to the content store.",
})
