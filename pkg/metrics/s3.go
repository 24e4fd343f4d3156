package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/marmos91/triggerfish/pkg/gateway/s3"
)

// s3Metrics is the Prometheus implementation of s3.S3Metrics.
type s3Metrics struct {
	operations        *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	bytes             *prometheus.CounterVec
}

// NewS3Metrics creates a Prometheus-backed S3Metrics instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewS3Metrics() s3.S3Metrics {
	if !IsEnabled() {
		return nil
	}

	reg := GetRegistry()

	return &s3Metrics{
		operations: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "triggerfish_gateway_operations_total",
				Help: "Total number of gateway operations by operation and status",
			},
			[]string{"operation", "status"}, // status: "success", "error"
		),
		operationDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "triggerfish_gateway_operation_duration_milliseconds",
				Help: "Duration of gateway operations in milliseconds",
				Buckets: []float64{
					1,     // 1ms
					5,     // 5ms
					10,    // 10ms - HeadObject on a warm gateway
					50,    // 50ms
					100,   // 100ms
					500,   // 500ms
					1000,  // 1s
					5000,  // 5s
					30000, // 30s - large warms
				},
			},
			[]string{"operation"},
		),
		bytes: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "triggerfish_gateway_bytes_total",
				Help: "Total bytes pulled through the gateway by operation",
			},
			[]string{"operation"},
		),
	}
}

// ObserveOperation implements s3.S3Metrics.
func (m *s3Metrics) ObserveOperation(operation string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.operations.WithLabelValues(operation, status).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(float64(duration) / float64(time.Millisecond))
}

// RecordBytes implements s3.S3Metrics.
func (m *s3Metrics) RecordBytes(operation string, bytes int64) {
	m.bytes.WithLabelValues(operation).Add(float64(bytes))
}
