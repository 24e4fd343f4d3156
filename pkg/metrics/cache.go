package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/marmos91/triggerfish/pkg/metadata"
)

// cacheMetrics is the Prometheus implementation of metadata.CacheMetrics.
type cacheMetrics struct {
	lookups       *prometheus.CounterVec
	invalidations prometheus.Counter
}

// NewCacheMetrics creates a Prometheus-backed CacheMetrics instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
// When nil is returned, callers should pass nil to the metadata
// service, which results in zero overhead.
func NewCacheMetrics() metadata.CacheMetrics {
	if !IsEnabled() {
		return nil
	}

	reg := GetRegistry()

	return &cacheMetrics{
		lookups: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "triggerfish_attribute_cache_lookups_total",
				Help: "Total number of attribute cache lookups by status",
			},
			[]string{"status"}, // "hit", "miss"
		),
		invalidations: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "triggerfish_attribute_cache_invalidations_total",
				Help: "Total number of attribute cache entries dropped on object change",
			},
		),
	}
}

// RecordHit implements metadata.CacheMetrics.
func (m *cacheMetrics) RecordHit() {
	m.lookups.WithLabelValues("hit").Inc()
}

// RecordMiss implements metadata.CacheMetrics.
func (m *cacheMetrics) RecordMiss() {
	m.lookups.WithLabelValues("miss").Inc()
}

// RecordInvalidation implements metadata.CacheMetrics.
func (m *cacheMetrics) RecordInvalidation() {
	m.invalidations.Inc()
}
