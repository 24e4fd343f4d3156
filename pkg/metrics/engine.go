package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/marmos91/triggerfish/pkg/engine"
)

// engineMetrics is the Prometheus implementation of engine.EngineMetrics.
type engineMetrics struct {
	events         *prometheus.CounterVec
	invocations    *prometheus.CounterVec
	invocationTime *prometheus.HistogramVec
	forwardLatency *prometheus.HistogramVec
}

// NewEngineMetrics creates a Prometheus-backed EngineMetrics instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
// When nil is returned, callers should pass nil to the engine, which
// results in zero overhead.
func NewEngineMetrics() engine.EngineMetrics {
	if !IsEnabled() {
		return nil
	}

	reg := GetRegistry()

	return &engineMetrics{
		events: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "triggerfish_engine_events_total",
				Help: "Total number of accepted events by trigger",
			},
			[]string{"trigger"},
		),
		invocations: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "triggerfish_engine_invocations_total",
				Help: "Total number of finished controller invocations by controller and outcome",
			},
			[]string{"controller", "outcome"}, // outcome: "completed", "recovered", "failed"
		),
		invocationTime: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "triggerfish_engine_invocation_duration_milliseconds",
				Help: "Duration of controller invocations in milliseconds",
				Buckets: []float64{
					0.5,   // 500us - attribute cache hit, nothing to submit
					1,     // 1ms
					5,     // 5ms
					10,    // 10ms - gateway metadata fetch
					50,    // 50ms
					100,   // 100ms
					500,   // 500ms
					1000,  // 1s
					5000,  // 5s - invoke timeout territory
					30000, // 30s
				},
			},
			[]string{"controller"},
		),
		forwardLatency: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "triggerfish_engine_forward_latency_milliseconds",
				Help: "Time from event receipt to client response release in milliseconds",
				Buckets: []float64{
					0.1, // 100us - immediate forward
					0.5, // 500us
					1,   // 1ms
					5,   // 5ms
					10,  // 10ms
					50,  // 50ms
					100, // 100ms
					500, // 500ms
					2000, // 2s - force-release territory
				},
			},
			[]string{"trigger"},
		),
	}
}

// RecordEvent implements engine.EngineMetrics.
func (m *engineMetrics) RecordEvent(trigger string) {
	m.events.WithLabelValues(trigger).Inc()
}

// RecordInvocation implements engine.EngineMetrics.
func (m *engineMetrics) RecordInvocation(controller, outcome string) {
	m.invocations.WithLabelValues(controller, outcome).Inc()
}

// ObserveInvocation implements engine.EngineMetrics.
func (m *engineMetrics) ObserveInvocation(controller string, duration time.Duration) {
	m.invocationTime.WithLabelValues(controller).Observe(float64(duration) / float64(time.Millisecond))
}

// ObserveForwardLatency implements engine.EngineMetrics.
func (m *engineMetrics) ObserveForwardLatency(trigger string, duration time.Duration) {
	m.forwardLatency.WithLabelValues(trigger).Observe(float64(duration) / float64(time.Millisecond))
}
