package metadata

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/marmos91/triggerfish/pkg/event"
	"github.com/marmos91/triggerfish/pkg/gateway"
	"github.com/marmos91/triggerfish/pkg/metadata/store"
	"github.com/marmos91/triggerfish/pkg/metadata/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRef = event.ObjectRef{Bucket: "docs", Key: "report.pdf"}

// fakeGateway serves canned metadata and counts platform round trips.
type fakeGateway struct {
	mu      sync.Mutex
	objects map[string]map[string]string
	calls   int
	err     error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{objects: make(map[string]map[string]string)}
}

func (g *fakeGateway) set(ref event.ObjectRef, attrs map[string]string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.objects[ref.String()] = attrs
}

func (g *fakeGateway) metadataCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func (g *fakeGateway) ObjectMetadata(_ context.Context, ref event.ObjectRef) (map[string]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	attrs, ok := g.objects[ref.String()]
	if !ok {
		return nil, gateway.NewNotFoundError(ref)
	}
	return attrs, nil
}

func (g *fakeGateway) Warm(context.Context, event.ObjectRef, int64) (int64, error) {
	return 0, nil
}

func (g *fakeGateway) HealthCheck(context.Context) error {
	return nil
}

// countingMetrics is a CacheMetrics fake.
type countingMetrics struct {
	mu                         sync.Mutex
	hits, misses, invalidation int
}

func (m *countingMetrics) RecordHit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hits++
}

func (m *countingMetrics) RecordMiss() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.misses++
}

func (m *countingMetrics) RecordInvalidation() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidation++
}

func TestService_MissReadsThroughAndCaches(t *testing.T) {
	t.Parallel()

	gw := newFakeGateway()
	gw.set(testRef, map[string]string{"resources": "a,b"})

	metrics := &countingMetrics{}
	svc := NewService(memory.New(time.Minute), gw, metrics)
	ctx := context.Background()

	value, ok, err := svc.Attribute(ctx, testRef, "resources")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a,b", value)
	assert.Equal(t, 1, gw.metadataCalls())

	// The second lookup is served from the cache.
	value, ok, err = svc.Attribute(ctx, testRef, "resources")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a,b", value)
	assert.Equal(t, 1, gw.metadataCalls(), "second lookup must not hit the platform")

	assert.Equal(t, 1, metrics.hits)
	assert.Equal(t, 1, metrics.misses)
}

func TestService_AbsentAttributeOnExistingObject(t *testing.T) {
	t.Parallel()

	gw := newFakeGateway()
	gw.set(testRef, map[string]string{"unrelated": "x"})

	svc := NewService(memory.New(time.Minute), gw, nil)

	_, ok, err := svc.Attribute(context.Background(), testRef, "resources")
	require.NoError(t, err)
	assert.False(t, ok, "absent attribute is reported via the bool, not an error")
}

func TestService_MissingObjectPropagatesNotFound(t *testing.T) {
	t.Parallel()

	svc := NewService(memory.New(time.Minute), newFakeGateway(), nil)

	_, _, err := svc.Attribute(context.Background(), testRef, "resources")
	require.Error(t, err)
	assert.True(t, gateway.IsNotFound(err))
}

func TestService_InvalidateForcesRefetch(t *testing.T) {
	t.Parallel()

	gw := newFakeGateway()
	gw.set(testRef, map[string]string{"resources": "old"})

	metrics := &countingMetrics{}
	svc := NewService(memory.New(time.Minute), gw, metrics)
	ctx := context.Background()

	value, _, err := svc.Attribute(ctx, testRef, "resources")
	require.NoError(t, err)
	assert.Equal(t, "old", value)

	// The platform object changes; the engine invalidates on onput.
	gw.set(testRef, map[string]string{"resources": "new"})
	require.NoError(t, svc.Invalidate(ctx, testRef))

	value, _, err = svc.Attribute(ctx, testRef, "resources")
	require.NoError(t, err)
	assert.Equal(t, "new", value)
	assert.Equal(t, 2, gw.metadataCalls())
	assert.Equal(t, 1, metrics.invalidation)
}

func TestService_DegradedStoreFallsThroughToGateway(t *testing.T) {
	t.Parallel()

	gw := newFakeGateway()
	gw.set(testRef, map[string]string{"resources": "a"})

	svc := NewService(&brokenStore{}, gw, nil)

	value, ok, err := svc.Attribute(context.Background(), testRef, "resources")
	require.NoError(t, err, "a broken cache must not break reads")
	assert.True(t, ok)
	assert.Equal(t, "a", value)
}

func TestService_BoundObjectReadsOneReference(t *testing.T) {
	t.Parallel()

	gw := newFakeGateway()
	gw.set(testRef, map[string]string{"resources": "a"})
	other := event.ObjectRef{Bucket: "docs", Key: "other.pdf"}
	gw.set(other, map[string]string{"resources": "b"})

	svc := NewService(memory.New(time.Minute), gw, nil)

	value, ok, err := svc.For(testRef).Attribute(context.Background(), "resources")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a", value)
}

// brokenStore fails every operation with an infrastructure error.
type brokenStore struct{}

func (b *brokenStore) Get(context.Context, event.ObjectRef) (map[string]string, error) {
	return nil, store.NewIOError("", errors.New("disk failure"))
}

func (b *brokenStore) Put(context.Context, event.ObjectRef, map[string]string) error {
	return store.NewIOError("", errors.New("disk failure"))
}

func (b *brokenStore) Delete(context.Context, event.ObjectRef) error {
	return store.NewIOError("", errors.New("disk failure"))
}

func (b *brokenStore) HealthCheck(context.Context) error {
	return errors.New("disk failure")
}

func (b *brokenStore) Close() error { return nil }
