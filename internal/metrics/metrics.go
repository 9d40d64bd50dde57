// Package metrics exposes Prometheus collectors for the archiver.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	archivePostsTotal        *prometheus.CounterVec
	archiveSitemapsTotal     *prometheus.CounterVec
	archiveFetchBytesTotal   prometheus.Counter
	archiveFetchDuration     prometheus.Histogram
	archiveCheckpointFlushes prometheus.Counter
	archiveRateLimitDelay    prometheus.Histogram

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		archivePostsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "archive_posts_total",
				Help: "Total posts processed, labeled by result.",
			},
			[]string{"result"},
		)

		archiveSitemapsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "archive_sitemaps_total",
				Help: "Total post sitemaps fetched, labeled by result.",
			},
			[]string{"result"},
		)

		archiveFetchBytesTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "archive_fetch_bytes_total",
				Help: "Total bytes downloaded across all fetches.",
			},
		)

		archiveFetchDuration = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "archive_fetch_duration_seconds",
				Help:    "Wall time per fetch.",
				Buckets: prometheus.DefBuckets,
			},
		)

		archiveCheckpointFlushes = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "archive_checkpoint_flushes_total",
				Help: "Total checkpoint writes.",
			},
		)

		archiveRateLimitDelay = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "archive_rate_limit_delay_seconds",
				Help:    "Delay introduced by the global rate limiter.",
				Buckets: []float64{0.01, 0.1, 0.25, 0.5, 1, 2, 5},
			},
		)
	})
}

// ObservePost records one processed post by result ("scraped" or "failed").
func ObservePost(result string) {
	if archivePostsTotal != nil {
		archivePostsTotal.WithLabelValues(result).Inc()
	}
}

// ObserveSitemap records one sitemap fetch by result ("ok" or "failed").
func ObserveSitemap(result string) {
	if archiveSitemapsTotal != nil {
		archiveSitemapsTotal.WithLabelValues(result).Inc()
	}
}

// ObserveFetch records bytes and latency for one completed fetch.
func ObserveFetch(bytes int, dur time.Duration) {
	if archiveFetchBytesTotal != nil {
		archiveFetchBytesTotal.Add(float64(bytes))
	}
	if archiveFetchDuration != nil {
		archiveFetchDuration.Observe(dur.Seconds())
	}
}

// ObserveCheckpointFlush records one checkpoint write.
func ObserveCheckpointFlush() {
	if archiveCheckpointFlushes != nil {
		archiveCheckpointFlushes.Inc()
	}
}

// ObserveRateLimitDelay records a rate-limit induced wait.
func ObserveRateLimitDelay(dur time.Duration) {
	if archiveRateLimitDelay != nil {
		archiveRateLimitDelay.Observe(dur.Seconds())
	}
}
