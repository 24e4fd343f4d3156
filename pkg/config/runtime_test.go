package config

import (
	"context"
	"testing"
	"time"

	"github.com/marmos91/triggerfish/pkg/controlplane/models"
	"github.com/marmos91/triggerfish/pkg/event"
	"github.com/marmos91/triggerfish/pkg/mc/prefetching"
)

type stubGateway struct{}

func (stubGateway) ObjectMetadata(ctx context.Context, ref event.ObjectRef) (map[string]string, error) {
	return map[string]string{}, nil
}

func (stubGateway) Warm(ctx context.Context, ref event.ObjectRef, maxBytes int64) (int64, error) {
	return 0, nil
}

func (stubGateway) HealthCheck(ctx context.Context) error {
	return nil
}

type stubDeployments struct{}

func (stubDeployments) DeploymentsForTrigger(ctx context.Context, trigger event.Trigger) ([]models.Deployment, error) {
	return nil, nil
}

func memoryCacheConfig() *Config {
	cfg := GetDefaultConfig()
	cfg.AttributeCache = AttributeCacheConfig{Type: "memory"}
	return cfg
}

func TestInitializeRuntime(t *testing.T) {
	cfg := memoryCacheConfig()

	rt, err := InitializeRuntime(context.Background(), cfg, RuntimeOptions{
		Gateway: stubGateway{},
	})
	if err != nil {
		t.Fatalf("Failed to initialize runtime: %v", err)
	}
	defer rt.Shutdown(time.Second)

	if rt.Engine == nil {
		t.Fatal("Expected engine to be assembled")
	}
	if !rt.Registry.Has(prefetching.Name) {
		t.Errorf("Expected built-in %q controller to be registered", prefetching.Name)
	}
	if rt.JournalEnabled {
		t.Error("Expected journal disabled by default")
	}
	if rt.Timers != nil {
		t.Error("Expected no timer source without a deployment source")
	}
}

func TestInitializeRuntime_StartStop(t *testing.T) {
	cfg := memoryCacheConfig()
	cfg.Prefetch.Workers = 1
	cfg.Prefetch.QueueSize = 4

	rt, err := InitializeRuntime(context.Background(), cfg, RuntimeOptions{
		Gateway: stubGateway{},
	})
	if err != nil {
		t.Fatalf("Failed to initialize runtime: %v", err)
	}

	rt.Start(context.Background())
	rt.Shutdown(time.Second)
}

func TestInitializeRuntime_WithDeployments(t *testing.T) {
	cfg := memoryCacheConfig()

	rt, err := InitializeRuntime(context.Background(), cfg, RuntimeOptions{
		Gateway:     stubGateway{},
		Deployments: stubDeployments{},
	})
	if err != nil {
		t.Fatalf("Failed to initialize runtime: %v", err)
	}
	defer rt.Shutdown(time.Second)

	if rt.Timers == nil {
		t.Error("Expected timer source when a deployment source is available")
	}
}

func TestInitializeRuntime_UnknownCacheType(t *testing.T) {
	cfg := memoryCacheConfig()
	cfg.AttributeCache.Type = "redis"

	_, err := InitializeRuntime(context.Background(), cfg, RuntimeOptions{
		Gateway: stubGateway{},
	})
	if err == nil {
		t.Fatal("Expected error for unknown attribute cache type")
	}
}

func TestInitializeRuntime_BadgerInTempDir(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.AttributeCache = AttributeCacheConfig{
		Type: "badger",
		Path: t.TempDir(),
		TTL:  time.Minute,
	}

	rt, err := InitializeRuntime(context.Background(), cfg, RuntimeOptions{
		Gateway: stubGateway{},
	})
	if err != nil {
		t.Fatalf("Failed to initialize runtime with badger cache: %v", err)
	}
	rt.Shutdown(time.Second)
}
