// Package sdfstore is the persistent key-value layer of the index: a thin,
// typed wrapper around a memory-mapped B-tree store (bbolt) exposing the
// named sub-tables the index builder and query engine read and write.
//
// It follows a small struct wrapping the underlying engine handle, explicit
// sentinel error types, and byte-level Get/Put primitives; the engine
// itself supplies the ACID single-writer/many-reader transaction model, so
// no extra locking is layered on top.
package sdfstore

import (
	"fmt"
	"time"

	logging "github.com/ipfs/go-log/v2"
	bolt "go.etcd.io/bbolt"
)

var log = logging.Logger("sdfstore")

// SchemaVersion is the current on-disk schema version written to meta.
const SchemaVersion = 1

// DefaultPostingListPageSize is the number of conformer ALIDs packed into
// one posting-list page before a new page is opened.
const DefaultPostingListPageSize = 4096

// Bucket names for each sub-table.
var (
	bucketMeta             = []byte("meta")
	bucketFiles            = []byte("files")
	bucketFilesRev         = []byte("files_rev")
	bucketRecords          = []byte("records")
	bucketCIDToCompound    = []byte("cid_to_compound")
	bucketConfIDToConf     = []byte("confid_to_conf")
	bucketCIDToConfHeaders = []byte("cid_to_conformers_h")
	bucketCIDToConfPages   = []byte("cid_to_conformers_p")
)

var allBuckets = [][]byte{
	bucketMeta,
	bucketFiles,
	bucketFilesRev,
	bucketRecords,
	bucketCIDToCompound,
	bucketConfIDToConf,
	bucketCIDToConfHeaders,
	bucketCIDToConfPages,
}

const (
	defaultMapSize = int64(1) << 30 // 2^30 floor
	maxMapSize     = int64(1) << 40 // 2^40 ceiling
)

type config struct {
	mapSize  int64
	readOnly bool
	timeout  time.Duration
}

// Option configures Open.
type Option func(*config)

// WithMapSize sets the virtual address space bbolt reserves for its mmap.
// Values are clamped to [2^30, 2^40].
func WithMapSize(n int64) Option {
	return func(c *config) {
		if n < defaultMapSize {
			n = defaultMapSize
		}
		if n > maxMapSize {
			n = maxMapSize
		}
		c.mapSize = n
	}
}

// WithReadOnly opens the store without acquiring the writer file lock,
// allowing multiple concurrent query-only processes.
func WithReadOnly(ro bool) Option {
	return func(c *config) { c.readOnly = ro }
}

// WithTimeout bounds how long Open waits to acquire the store's file lock.
func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.timeout = d }
}

// Store is the opened, typed handle to the on-disk index.
type Store struct {
	db *bolt.DB
}

// Open creates (if absent) and opens the store directory's single bbolt
// file, provisioning every required bucket on first use.
func Open(path string, opts ...Option) (*Store, error) {
	c := config{
		mapSize: defaultMapSize,
		timeout: time.Second,
	}
	for _, opt := range opts {
		opt(&c)
	}

	db, err := bolt.Open(path, 0o644, &bolt.Options{
		Timeout:         c.timeout,
		ReadOnly:        c.readOnly,
		InitialMmapSize: int(c.mapSize),
	})
	if err != nil {
		return nil, fmt.Errorf("sdfstore: open %s: %w", path, err)
	}

	s := &Store{db: db}
	if !c.readOnly {
		if err := s.bootstrap(); err != nil {
			db.Close()
			return nil, err
		}
	}
	log.Infof("opened store at %s (readonly=%v)", path, c.readOnly)
	return s, nil
}

func (s *Store) bootstrap() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("sdfstore: create bucket %s: %w", name, err)
			}
		}
		return nil
	})
}

// Close releases the store's file lock and mmap.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the path bbolt opened, primarily for logging.
func (s *Store) Path() string {
	return s.db.Path()
}

// Update runs fn inside a single read-write transaction. Only one Update
// runs at a time per Store (bbolt's native single-writer guarantee); an
// error returned by fn aborts the transaction so the store is left at its
// last-committed state.
func (s *Store) Update(fn func(tx *Tx) error) error {
	return s.db.Update(func(btx *bolt.Tx) error {
		return fn(&Tx{btx: btx})
	})
}

// View runs fn inside a read-only snapshot transaction. Concurrent View
// calls may run alongside each other and alongside at most one Update.
func (s *Store) View(fn func(tx *Tx) error) error {
	return s.db.View(func(btx *bolt.Tx) error {
		return fn(&Tx{btx: btx})
	})
}
