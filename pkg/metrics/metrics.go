// Package metrics wires the pipeline's per-cycle counters and timings
// into Prometheus client_golang vectors, exposed over /metrics by
// internal/status the way the teacher's metrics exporter registers its
// own vectors and serves them via promhttp.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles every vector the pipeline reports against. A
// single instance is held by the discoverer command, which records the
// crawl stats, NLP timing and engine results into it after each stage.
type Collector struct {
	CrawlItemsTotal    *prometheus.CounterVec
	CrawlErrorsTotal   *prometheus.CounterVec
	CrawlRequestsTotal *prometheus.CounterVec
	HostBlockedTotal   *prometheus.CounterVec

	CycleDuration   prometheus.Histogram
	TrendsProduced  prometheus.Gauge
	BurstCount      prometheus.Gauge
	KeywordsTracked prometheus.Gauge

	NLPExtractDuration prometheus.Histogram
}

// New builds a Collector with every vector registered against reg.
// Pass prometheus.NewRegistry() for an isolated test registry, or
// prometheus.DefaultRegisterer to expose via promhttp.Handler().
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		CrawlItemsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trendradar_crawl_items_total",
			Help: "Total raw content items collected, by platform.",
		}, []string{"platform"}),
		CrawlErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trendradar_crawl_errors_total",
			Help: "Total crawl request errors, by platform.",
		}, []string{"platform"}),
		CrawlRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trendradar_crawl_requests_total",
			Help: "Total HTTP requests issued, by platform.",
		}, []string{"platform"}),
		HostBlockedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trendradar_host_blocked_total",
			Help: "Total times a platform host transitioned to blocked.",
		}, []string{"platform"}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "trendradar_cycle_duration_seconds",
			Help:    "Wall-clock duration of a full crawl-to-trends cycle.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		TrendsProduced: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "trendradar_trends_produced",
			Help: "Number of trend topics produced by the most recent cycle.",
		}),
		BurstCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "trendradar_burst_count",
			Help: "Number of trend topics flagged as bursting in the most recent cycle.",
		}),
		KeywordsTracked: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "trendradar_keywords_tracked",
			Help: "Number of keywords currently held in the time-series store.",
		}),
		NLPExtractDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "trendradar_nlp_extract_duration_seconds",
			Help:    "Duration of one batch keyword extraction pass.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.CrawlItemsTotal, c.CrawlErrorsTotal, c.CrawlRequestsTotal, c.HostBlockedTotal,
		c.CycleDuration, c.TrendsProduced, c.BurstCount, c.KeywordsTracked, c.NLPExtractDuration,
	)

	return c
}

// Handler returns the promhttp handler serving every vector registered
// against reg.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
