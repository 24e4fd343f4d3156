//go:build integration

package badger_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/marmos91/triggerfish/pkg/event"
	"github.com/marmos91/triggerfish/pkg/metadata/store"
	"github.com/marmos91/triggerfish/pkg/metadata/store/badger"
)

// TestBadgerAttributeStore_Integration exercises the BadgerDB attribute
// store against a real on-disk database.
func TestBadgerAttributeStore_Integration(t *testing.T) {
	ctx := context.Background()

	tempDir, err := os.MkdirTemp("", "triggerfish-badger-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "attributes.db")

	t.Run("CreateStoreAndHealthCheck", func(t *testing.T) {
		s, err := badger.NewWithDefaults(ctx, dbPath)
		if err != nil {
			t.Fatalf("Failed to create badger store: %v", err)
		}
		defer s.Close()

		if err := s.HealthCheck(ctx); err != nil {
			t.Fatalf("HealthCheck failed: %v", err)
		}
	})

	t.Run("PutGetDelete", func(t *testing.T) {
		s, err := badger.NewWithDefaults(ctx, dbPath)
		if err != nil {
			t.Fatalf("Failed to create badger store: %v", err)
		}
		defer s.Close()

		ref := event.ObjectRef{Bucket: "media", Key: "photos/sunset.jpg"}
		attrs := map[string]string{
			"content-type":   "image/jpeg",
			"content-length": "482133",
			"etag":           "d41d8cd98f00b204e9800998ecf8427e",
		}

		if err := s.Put(ctx, ref, attrs); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		got, err := s.Get(ctx, ref)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if len(got) != len(attrs) {
			t.Fatalf("expected %d attributes, got %d", len(attrs), len(got))
		}
		for name, want := range attrs {
			if got[name] != want {
				t.Errorf("attribute %q = %q, want %q", name, got[name], want)
			}
		}

		if err := s.Delete(ctx, ref); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}

		if _, err := s.Get(ctx, ref); !store.IsNotFound(err) {
			t.Errorf("expected a cache miss after delete, got %v", err)
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		s, err := badger.NewWithDefaults(ctx, dbPath)
		if err != nil {
			t.Fatalf("Failed to create badger store: %v", err)
		}
		defer s.Close()

		ref := event.ObjectRef{Bucket: "media", Key: "does/not/exist"}
		if _, err := s.Get(ctx, ref); !store.IsNotFound(err) {
			t.Errorf("expected a cache miss, got %v", err)
		}
	})

	t.Run("DeleteMissingIsIdempotent", func(t *testing.T) {
		s, err := badger.NewWithDefaults(ctx, dbPath)
		if err != nil {
			t.Fatalf("Failed to create badger store: %v", err)
		}
		defer s.Close()

		ref := event.ObjectRef{Bucket: "media", Key: "never/existed"}
		if err := s.Delete(ctx, ref); err != nil {
			t.Errorf("Delete of missing ref should succeed, got %v", err)
		}
	})

	t.Run("PersistsAcrossReopen", func(t *testing.T) {
		ref := event.ObjectRef{Bucket: "archive", Key: "docs/report.pdf"}
		attrs := map[string]string{"content-type": "application/pdf"}

		s, err := badger.NewWithDefaults(ctx, dbPath)
		if err != nil {
			t.Fatalf("Failed to create badger store: %v", err)
		}
		if err := s.Put(ctx, ref, attrs); err != nil {
			s.Close()
			t.Fatalf("Put failed: %v", err)
		}
		if err := s.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}

		reopened, err := badger.NewWithDefaults(ctx, dbPath)
		if err != nil {
			t.Fatalf("Failed to reopen badger store: %v", err)
		}
		defer reopened.Close()

		got, err := reopened.Get(ctx, ref)
		if err != nil {
			t.Fatalf("Get after reopen failed: %v", err)
		}
		if got["content-type"] != "application/pdf" {
			t.Errorf("content-type = %q after reopen, want application/pdf", got["content-type"])
		}
	})

	t.Run("OverwriteReplacesAttributes", func(t *testing.T) {
		s, err := badger.NewWithDefaults(ctx, dbPath)
		if err != nil {
			t.Fatalf("Failed to create badger store: %v", err)
		}
		defer s.Close()

		ref := event.ObjectRef{Bucket: "media", Key: "videos/clip.mp4"}
		if err := s.Put(ctx, ref, map[string]string{"content-type": "video/mp4", "etag": "abc"}); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		if err := s.Put(ctx, ref, map[string]string{"content-type": "video/webm"}); err != nil {
			t.Fatalf("Second put failed: %v", err)
		}

		got, err := s.Get(ctx, ref)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got["content-type"] != "video/webm" {
			t.Errorf("content-type = %q, want video/webm", got["content-type"])
		}
		if _, ok := got["etag"]; ok {
			t.Error("etag should not survive an overwrite")
		}
	})
}
