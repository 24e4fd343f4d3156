package gateway

import (
	"errors"
	"fmt"
	"testing"

	"github.com/marmos91/triggerfish/pkg/event"
)

func TestResolveIdentifier(t *testing.T) {
	source := event.ObjectRef{Bucket: "docs", Key: "report.pdf"}

	tests := []struct {
		name       string
		identifier string
		want       event.ObjectRef
	}{
		{"relative key", "appendix.pdf", event.ObjectRef{Bucket: "docs", Key: "appendix.pdf"}},
		{"absolute reference", "media/cover.png", event.ObjectRef{Bucket: "media", Key: "cover.png"}},
		{"absolute with nested key", "media/2026/cover.png", event.ObjectRef{Bucket: "media", Key: "2026/cover.png"}},
		{"leading slash stays relative", "/odd-name", event.ObjectRef{Bucket: "docs", Key: "/odd-name"}},
		{"trailing slash stays relative", "odd-name/", event.ObjectRef{Bucket: "docs", Key: "odd-name/"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveIdentifier(source, tt.identifier)
			if got != tt.want {
				t.Errorf("ResolveIdentifier(%q) = %+v, want %+v", tt.identifier, got, tt.want)
			}
		})
	}
}

func TestNotFoundError(t *testing.T) {
	ref := event.ObjectRef{Bucket: "docs", Key: "missing.pdf"}
	err := NewNotFoundError(ref)

	if !IsNotFound(err) {
		t.Error("IsNotFound should match a NotFoundError")
	}
	if !IsNotFound(fmt.Errorf("looking up object: %w", err)) {
		t.Error("IsNotFound should match through wrapping")
	}
	if IsNotFound(errors.New("boom")) || IsNotFound(nil) {
		t.Error("IsNotFound must not match unrelated errors")
	}
}
