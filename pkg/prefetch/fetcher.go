package prefetch

import (
	"context"

	"github.com/marmos91/triggerfish/pkg/event"
	"github.com/marmos91/triggerfish/pkg/gateway"
)

// GatewayFetcher warms objects through the platform gateway.
//
// Identifier resolution happens here, at fetch time: a bare identifier names
// a key in the source object's bucket, while "bucket/key" addresses another
// bucket outright.
type GatewayFetcher struct {
	gw        gateway.Gateway
	warmBytes int64
}

var _ Fetcher = (*GatewayFetcher)(nil)

// NewGatewayFetcher creates a fetcher backed by gw. A warmBytes > 0 limits
// each warm to the leading warmBytes bytes of the object; zero reads whole
// objects.
func NewGatewayFetcher(gw gateway.Gateway, warmBytes int64) *GatewayFetcher {
	return &GatewayFetcher{gw: gw, warmBytes: warmBytes}
}

// Warm resolves identifier against the source object and pulls the resolved
// object through the platform cache tiers.
func (f *GatewayFetcher) Warm(ctx context.Context, source event.ObjectRef, identifier string) (int64, error) {
	ref := gateway.ResolveIdentifier(source, identifier)
	return f.gw.Warm(ctx, ref, f.warmBytes)
}
