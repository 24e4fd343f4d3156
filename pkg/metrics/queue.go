package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/marmos91/triggerfish/pkg/prefetch"
)

// queueMetrics is the Prometheus implementation of prefetch.QueueMetrics.
type queueMetrics struct {
	submissions   *prometheus.CounterVec
	drops         *prometheus.CounterVec
	fetches       *prometheus.CounterVec
	fetchBytes    prometheus.Histogram
	fetchDuration *prometheus.HistogramVec
	queueDepth    *prometheus.GaugeVec
}

// NewQueueMetrics creates a Prometheus-backed QueueMetrics instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewQueueMetrics() prefetch.QueueMetrics {
	if !IsEnabled() {
		return nil
	}

	reg := GetRegistry()

	return &queueMetrics{
		submissions: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "triggerfish_prefetch_submissions_total",
				Help: "Total number of accepted warming submissions by lane",
			},
			[]string{"lane"}, // "demand", "speculative"
		),
		drops: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "triggerfish_prefetch_drops_total",
				Help: "Total number of warming submissions rejected because the lane was full",
			},
			[]string{"lane"},
		),
		fetches: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "triggerfish_prefetch_fetches_total",
				Help: "Total number of finished warm fetches by outcome",
			},
			[]string{"outcome"}, // "completed", "failed"
		),
		fetchBytes: promauto.With(reg).NewHistogram(
			prometheus.HistogramOpts{
				Name: "triggerfish_prefetch_fetch_bytes",
				Help: "Distribution of bytes pulled per warm fetch",
				Buckets: []float64{
					4096,      // 4KB - metadata-sized objects
					65536,     // 64KB
					524288,    // 512KB
					1048576,   // 1MB
					4194304,   // 4MB - typical warm_bytes cap
					16777216,  // 16MB
					134217728, // 128MB - whole-object warms
				},
			},
		),
		fetchDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "triggerfish_prefetch_fetch_duration_milliseconds",
				Help: "Duration of warm fetches in milliseconds",
				Buckets: []float64{
					1,      // 1ms - already hot
					10,     // 10ms
					50,     // 50ms
					100,    // 100ms
					500,    // 500ms
					1000,   // 1s
					5000,   // 5s
					30000,  // 30s
					120000, // 2m - fetch timeout territory
				},
			},
			[]string{"outcome"},
		),
		queueDepth: promauto.With(reg).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "triggerfish_prefetch_queue_depth",
				Help: "Current number of pending warming requests by lane",
			},
			[]string{"lane"},
		),
	}
}

// RecordSubmission implements prefetch.QueueMetrics.
func (m *queueMetrics) RecordSubmission(lane string) {
	m.submissions.WithLabelValues(lane).Inc()
}

// RecordDrop implements prefetch.QueueMetrics.
func (m *queueMetrics) RecordDrop(lane string) {
	m.drops.WithLabelValues(lane).Inc()
}

// ObserveFetch implements prefetch.QueueMetrics.
func (m *queueMetrics) ObserveFetch(outcome string, bytes int64, duration time.Duration) {
	m.fetches.WithLabelValues(outcome).Inc()
	m.fetchBytes.Observe(float64(bytes))
	m.fetchDuration.WithLabelValues(outcome).Observe(float64(duration) / float64(time.Millisecond))
}

// SetQueueDepth implements prefetch.QueueMetrics.
func (m *queueMetrics) SetQueueDepth(lane string, depth int) {
	m.queueDepth.WithLabelValues(lane).Set(float64(depth))
}
