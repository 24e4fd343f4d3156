// Package badger implements the attribute store on BadgerDB.
//
// Cached attribute maps are stored as JSON values under "a:" prefixed
// keys and written with Badger's native TTL, so expiry needs no
// sweeper of its own. A background value-log GC keeps the on-disk
// footprint bounded for long-running daemons.
package badger

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/marmos91/triggerfish/internal/logger"
	"github.com/marmos91/triggerfish/pkg/event"
	"github.com/marmos91/triggerfish/pkg/metadata/store"
)

const (
	// prefixAttributes namespaces cached attribute entries: "a:<bucket>/<key>".
	prefixAttributes = "a:"

	// DefaultTTL bounds the lifetime of a cached entry. The engine
	// invalidates entries on mutating triggers; the TTL covers
	// out-of-band changes the platform never reports.
	DefaultTTL = 5 * time.Minute

	gcInterval       = 10 * time.Minute
	gcDiscardRatio   = 0.5
	defaultDirPerms  = 0o755
	memTableSizeSoft = 16 << 20
)

// Config holds BadgerDB attribute store settings.
type Config struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps all data off disk. Used by tests and dev setups.
	InMemory bool

	// TTL is the entry lifetime. Zero means DefaultTTL.
	TTL time.Duration
}

// Store is a BadgerDB-backed AttributeStore.
type Store struct {
	db  *badgerdb.DB
	ttl time.Duration

	closeOnce sync.Once
	stopGC    chan struct{}
	gcDone    chan struct{}
}

var _ store.AttributeStore = (*Store)(nil)

// New opens the attribute database and starts background value-log GC.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}

	opts := badgerdb.DefaultOptions(cfg.Path).
		WithInMemory(cfg.InMemory).
		WithMemTableSize(memTableSizeSoft).
		WithLogger(nil)

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open attribute database: %w", err)
	}

	s := &Store{
		db:     db,
		ttl:    cfg.TTL,
		stopGC: make(chan struct{}),
		gcDone: make(chan struct{}),
	}
	go s.runGC()

	logger.Debug("Attribute store opened",
		"path", cfg.Path,
		"in_memory", cfg.InMemory,
		"ttl", cfg.TTL.String())

	return s, nil
}

// NewWithDefaults opens the attribute database at path with DefaultTTL.
func NewWithDefaults(ctx context.Context, path string) (*Store, error) {
	return New(ctx, Config{Path: path})
}

// Get returns the cached attribute map for the reference.
func (s *Store) Get(ctx context.Context, ref event.ObjectRef) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var attrs map[string]string
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(keyAttributes(ref))
		if err == badgerdb.ErrKeyNotFound {
			return store.NewNotFoundError(ref.String())
		}
		if err != nil {
			return store.NewIOError(ref.String(), err)
		}

		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &attrs); err != nil {
				return store.NewEncodingError(ref.String(), err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return attrs, nil
}

// Put caches the attribute map for the reference with the store TTL.
func (s *Store) Put(ctx context.Context, ref event.ObjectRef, attrs map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := json.Marshal(attrs)
	if err != nil {
		return store.NewEncodingError(ref.String(), err)
	}

	err = s.db.Update(func(txn *badgerdb.Txn) error {
		entry := badgerdb.NewEntry(keyAttributes(ref), value).WithTTL(s.ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return store.NewIOError(ref.String(), err)
	}

	return nil
}

// Delete drops the cached entry for the reference.
func (s *Store) Delete(ctx context.Context, ref event.ObjectRef) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete(keyAttributes(ref))
	})
	if err != nil {
		return store.NewIOError(ref.String(), err)
	}

	return nil
}

// HealthCheck verifies the database can serve a read transaction.
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.View(func(txn *badgerdb.Txn) error {
		return nil
	})
	if err != nil {
		return fmt.Errorf("attribute store healthcheck failed: %w", err)
	}

	return nil
}

// Close stops background GC and closes the database. Safe to call
// more than once.
func (s *Store) Close() error {
	var closeErr error
	s.closeOnce.Do(func() {
		close(s.stopGC)
		<-s.gcDone
		closeErr = s.db.Close()
	})
	return closeErr
}

// runGC reclaims value-log space periodically. Badger expects callers
// to drive GC; ErrNoRewrite simply means there was nothing to collect.
func (s *Store) runGC() {
	defer close(s.gcDone)

	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopGC:
			return
		case <-ticker.C:
			for {
				if err := s.db.RunValueLogGC(gcDiscardRatio); err != nil {
					break
				}
			}
		}
	}
}

// keyAttributes generates the key for a cached entry: "a:<bucket>/<key>".
func keyAttributes(ref event.ObjectRef) []byte {
	return []byte(prefixAttributes + ref.String())
}
