package prefetch

import (
	"context"
	"testing"

	"github.com/marmos91/triggerfish/pkg/event"
)

type warmCall struct {
	ref      event.ObjectRef
	maxBytes int64
}

type fakeGateway struct {
	calls []warmCall
}

func (g *fakeGateway) ObjectMetadata(context.Context, event.ObjectRef) (map[string]string, error) {
	return nil, nil
}

func (g *fakeGateway) Warm(_ context.Context, ref event.ObjectRef, maxBytes int64) (int64, error) {
	g.calls = append(g.calls, warmCall{ref: ref, maxBytes: maxBytes})
	return 7, nil
}

func (g *fakeGateway) HealthCheck(context.Context) error { return nil }

func TestGatewayFetcher_ResolvesRelativeIdentifier(t *testing.T) {
	gw := &fakeGateway{}
	f := NewGatewayFetcher(gw, 0)
	source := event.ObjectRef{Bucket: "docs", Key: "report.pdf"}

	n, err := f.Warm(context.Background(), source, "chapter1.dat")
	if err != nil {
		t.Fatalf("Warm() error = %v", err)
	}
	if n != 7 {
		t.Errorf("Warm() bytes = %d, want 7", n)
	}

	want := event.ObjectRef{Bucket: "docs", Key: "chapter1.dat"}
	if len(gw.calls) != 1 || gw.calls[0].ref != want {
		t.Errorf("gateway warmed %+v, want %+v", gw.calls, want)
	}
}

func TestGatewayFetcher_ResolvesQualifiedIdentifier(t *testing.T) {
	gw := &fakeGateway{}
	f := NewGatewayFetcher(gw, 0)
	source := event.ObjectRef{Bucket: "docs", Key: "report.pdf"}

	if _, err := f.Warm(context.Background(), source, "models/weights.bin"); err != nil {
		t.Fatalf("Warm() error = %v", err)
	}

	want := event.ObjectRef{Bucket: "models", Key: "weights.bin"}
	if len(gw.calls) != 1 || gw.calls[0].ref != want {
		t.Errorf("gateway warmed %+v, want %+v", gw.calls, want)
	}
}

func TestGatewayFetcher_PassesWarmLimit(t *testing.T) {
	gw := &fakeGateway{}
	f := NewGatewayFetcher(gw, 4096)
	source := event.ObjectRef{Bucket: "docs", Key: "report.pdf"}

	if _, err := f.Warm(context.Background(), source, "a"); err != nil {
		t.Fatalf("Warm() error = %v", err)
	}

	if gw.calls[0].maxBytes != 4096 {
		t.Errorf("warm limit = %d, want 4096", gw.calls[0].maxBytes)
	}
}
