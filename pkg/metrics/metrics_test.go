package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func TestConstructors_NilWhenDisabled(t *testing.T) {
	// Registry initialization is process-wide, so this test must run
	// before anything calls InitRegistry. The disabled path is also
	// covered implicitly: the data-path packages are exercised with nil
	// recorders throughout their own tests.
	if IsEnabled() {
		t.Skip("registry already initialized by another test")
	}

	if m := NewEngineMetrics(); m != nil {
		t.Error("Expected nil engine metrics when disabled")
	}
	if m := NewQueueMetrics(); m != nil {
		t.Error("Expected nil queue metrics when disabled")
	}
	if m := NewCacheMetrics(); m != nil {
		t.Error("Expected nil cache metrics when disabled")
	}
	if m := NewS3Metrics(); m != nil {
		t.Error("Expected nil gateway metrics when disabled")
	}
}

func TestRecorders_Enabled(t *testing.T) {
	InitRegistry()
	InitRegistry() // second call is a no-op

	if !IsEnabled() {
		t.Fatal("Expected registry enabled after InitRegistry")
	}

	eng := NewEngineMetrics()
	if eng == nil {
		t.Fatal("Expected engine metrics when enabled")
	}
	eng.RecordEvent("onget")
	eng.RecordInvocation("prefetching", "completed")
	eng.ObserveInvocation("prefetching", 3*time.Millisecond)
	eng.ObserveForwardLatency("onget", 500*time.Microsecond)

	queue := NewQueueMetrics()
	queue.RecordSubmission("speculative")
	queue.RecordDrop("speculative")
	queue.ObserveFetch("completed", 4096, 20*time.Millisecond)
	queue.SetQueueDepth("demand", 2)

	cache := NewCacheMetrics()
	cache.RecordHit()
	cache.RecordMiss()
	cache.RecordInvalidation()

	s3m := NewS3Metrics()
	s3m.ObserveOperation("head_object", 5*time.Millisecond, nil)
	s3m.ObserveOperation("get_object", 10*time.Millisecond, errors.New("boom"))
	s3m.RecordBytes("get_object", 1024)

	// Scrape the registry and verify the series are exported
	handler := promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
	srv := httptest.NewServer(handler)
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("Failed to scrape metrics: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read metrics body: %v", err)
	}
	text := string(body)

	for _, series := range []string{
		"triggerfish_engine_events_total",
		"triggerfish_engine_invocations_total",
		"triggerfish_prefetch_submissions_total",
		"triggerfish_prefetch_queue_depth",
		"triggerfish_attribute_cache_lookups_total",
		"triggerfish_gateway_operations_total",
		"triggerfish_gateway_bytes_total",
	} {
		if !strings.Contains(text, series) {
			t.Errorf("Expected scrape output to contain %s", series)
		}
	}
}
