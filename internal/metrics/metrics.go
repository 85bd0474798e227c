package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "downloader_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "downloader_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache"},
	)

	// result is one of "present", "absent" or "error"
	CacheLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "downloader_cache_loads_total",
			Help: "Total number of loader invocations by outcome",
		},
		[]string{"cache", "result"},
	)

	CacheSweptEntries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "downloader_cache_swept_entries_total",
			Help: "Total number of expired entries removed by sweeps",
		},
		[]string{"cache"},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "downloader_upstream_request_duration_seconds",
			Help:    "Duration of requests to the package API",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "status"},
	)

	HTTPResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "downloader_http_responses_total",
			Help: "Total number of HTTP responses by route and status",
		},
		[]string{"route", "status"},
	)
)

// ObserveUpstreamRequest records one upstream call. status is 0 when the
// request failed before a response arrived.
func ObserveUpstreamRequest(endpoint string, status int, took time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	UpstreamRequestDuration.WithLabelValues(endpoint, label).Observe(took.Seconds())
}

// RecordHTTPResponse records a response written by the HTTP server
func RecordHTTPResponse(route string, status int) {
	HTTPResponses.WithLabelValues(route, strconv.Itoa(status)).Inc()
}
