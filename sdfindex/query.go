package sdfindex

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rpcpool/pubchem-faithful/locator"
	"github.com/rpcpool/pubchem-faithful/sdfstore"
)

// IndexHandle is an opened index ready for lookups. It holds the
// underlying store open for the handle's lifetime; callers must Close it.
type IndexHandle struct {
	store   *sdfstore.Store
	rootDir string
}

// Option configures OpenIndex.
type Option func(*openConfig)

type openConfig struct {
	readOnly bool
}

// WithWriteAccess opens the underlying store for read-write access instead
// of the default read-only mode. IndexHandle itself exposes only lookups;
// it has no write methods.
func WithWriteAccess() Option {
	return func(c *openConfig) { c.readOnly = false }
}

// OpenIndex opens a previously built index directory for querying.
func OpenIndex(indexDir string, opts ...Option) (*IndexHandle, error) {
	cfg := &openConfig{readOnly: true}
	for _, opt := range opts {
		opt(cfg)
	}

	storeOpts := []sdfstore.Option{sdfstore.WithReadOnly(cfg.readOnly)}
	store, err := sdfstore.Open(filepath.Join(indexDir, storeFileName), storeOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreIO, err)
	}

	var rootDir string
	if err := store.View(func(tx *sdfstore.Tx) error {
		if err := tx.CheckSchema(); err != nil {
			return fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
		}
		if m, ok, err := tx.GetMeta(); err != nil {
			return err
		} else if ok {
			rootDir = m.RootDir
		}
		return nil
	}); err != nil {
		store.Close()
		return nil, err
	}

	return &IndexHandle{store: store, rootDir: rootDir}, nil
}

// Close releases the underlying store.
func (h *IndexHandle) Close() error {
	return h.store.Close()
}

// GetMeta returns the build metadata recorded for this index.
func (h *IndexHandle) GetMeta() (sdfstore.Meta, error) {
	var m sdfstore.Meta
	err := h.store.View(func(tx *sdfstore.Tx) error {
		var ok bool
		var err error
		m, ok, err = tx.GetMeta()
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("sdfindex: index has no recorded meta")
		}
		return nil
	})
	return m, err
}

// resolveRecord decodes the locator stored at primaryKey, if present. A
// primary key present in a secondary index but absent from the records
// table is a dangling reference: it is logged and reported exactly like
// NotFound, never as an error.
func resolveRecord(tx *sdfstore.Tx, table string, secondaryKey string, primaryKey []byte) (locator.Locator, bool, error) {
	raw, ok := tx.GetRecord(primaryKey)
	if !ok {
		ref := danglingReference{table: table, key: secondaryKey}
		log.Warnf("dangling reference: %s[%s] -> missing record %x", ref.table, ref.key, primaryKey)
		return locator.Locator{}, false, nil
	}
	loc, err := locator.Decode(raw)
	if err != nil {
		return locator.Locator{}, false, fmt.Errorf("%w: %v", ErrCorruptLocator, err)
	}
	return loc, true, nil
}

// GetCompoundByCID resolves a compound's canonical record by its CID.
func (h *IndexHandle) GetCompoundByCID(cid int64) (IndexHit, bool, error) {
	var hit IndexHit
	var found bool
	err := h.store.View(func(tx *sdfstore.Tx) error {
		primaryKey, ok := tx.GetCIDToCompound(cid)
		if !ok {
			return nil
		}
		loc, ok, err := resolveRecord(tx, "cid_to_compound", fmt.Sprintf("%d", cid), primaryKey)
		if err != nil || !ok {
			return err
		}
		_, alid, err := sdfstore.SplitPrimaryKey(primaryKey)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCorruptLocator, err)
		}
		hit = IndexHit{ALID: alid, Locator: loc}
		found = true
		return nil
	})
	return hit, found, err
}

// GetConformerByConformerID resolves a conformer's record by its
// conformer-id string.
func (h *IndexHandle) GetConformerByConformerID(confID string) (IndexHit, bool, error) {
	var hit IndexHit
	var found bool
	err := h.store.View(func(tx *sdfstore.Tx) error {
		primaryKey, ok := tx.GetConfIDToConf(confID)
		if !ok {
			return nil
		}
		loc, ok, err := resolveRecord(tx, "confid_to_conf", confID, primaryKey)
		if err != nil || !ok {
			return err
		}
		_, alid, err := sdfstore.SplitPrimaryKey(primaryKey)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCorruptLocator, err)
		}
		hit = IndexHit{ALID: alid, Locator: loc}
		found = true
		return nil
	})
	return hit, found, err
}

// GetByALID resolves a record directly by its ALID, probing the compound
// table first and falling back to the conformer table, since an ALID alone
// does not say which kind produced it.
func (h *IndexHandle) GetByALID(alid [16]byte) (IndexHit, bool, error) {
	var hit IndexHit
	var found bool
	err := h.store.View(func(tx *sdfstore.Tx) error {
		for _, prefix := range [2]byte{sdfstore.PrefixCompound, sdfstore.PrefixConformer} {
			key := sdfstore.PrimaryKey(prefix, alid)
			raw, ok := tx.GetRecord(key[:])
			if !ok {
				continue
			}
			loc, err := locator.Decode(raw)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrCorruptLocator, err)
			}
			hit = IndexHit{ALID: alid, Locator: loc}
			found = true
			return nil
		}
		return nil
	})
	return hit, found, err
}

// IterConformersByCID streams every conformer ALID indexed under cid, in
// posting-list order, resolving each to its locator. fn's return value
// controls early termination, matching bbolt's own Cursor/ForEach idiom.
// The whole iteration runs inside a single read transaction.
func (h *IndexHandle) IterConformersByCID(cid int64, fn func(IndexHit) bool) error {
	return h.store.View(func(tx *sdfstore.Tx) error {
		var iterErr error
		tx.IterateConformerALIDs(cid, func(alid [16]byte) bool {
			key := sdfstore.PrimaryKey(sdfstore.PrefixConformer, alid)
			loc, ok, err := resolveRecord(tx, "cid_to_conformers_p", fmt.Sprintf("%d", cid), key[:])
			if err != nil {
				iterErr = err
				return false
			}
			if !ok {
				return true // dangling; skip and keep going
			}
			return fn(IndexHit{ALID: alid, Locator: loc})
		})
		return iterErr
	})
}

// BatchGetCompoundsByCID resolves many CIDs inside a single read
// transaction, avoiding per-lookup transaction overhead for bulk queries.
// The result slice has one entry per input CID, in the same order; entries
// for CIDs not found are the zero IndexHit.
func (h *IndexHandle) BatchGetCompoundsByCID(cids []int64) ([]IndexHit, []bool, error) {
	hits := make([]IndexHit, len(cids))
	found := make([]bool, len(cids))
	err := h.store.View(func(tx *sdfstore.Tx) error {
		for i, cid := range cids {
			primaryKey, ok := tx.GetCIDToCompound(cid)
			if !ok {
				continue
			}
			loc, ok, err := resolveRecord(tx, "cid_to_compound", fmt.Sprintf("%d", cid), primaryKey)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			_, alid, err := sdfstore.SplitPrimaryKey(primaryKey)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrCorruptLocator, err)
			}
			hits[i] = IndexHit{ALID: alid, Locator: loc}
			found[i] = true
		}
		return nil
	})
	return hits, found, err
}

// BatchGetConformersByConformerID is the conformer-id analogue of
// BatchGetCompoundsByCID.
func (h *IndexHandle) BatchGetConformersByConformerID(confIDs []string) ([]IndexHit, []bool, error) {
	hits := make([]IndexHit, len(confIDs))
	found := make([]bool, len(confIDs))
	err := h.store.View(func(tx *sdfstore.Tx) error {
		for i, confID := range confIDs {
			primaryKey, ok := tx.GetConfIDToConf(confID)
			if !ok {
				continue
			}
			loc, ok, err := resolveRecord(tx, "confid_to_conf", confID, primaryKey)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			_, alid, err := sdfstore.SplitPrimaryKey(primaryKey)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrCorruptLocator, err)
			}
			hits[i] = IndexHit{ALID: alid, Locator: loc}
			found[i] = true
		}
		return nil
	})
	return hits, found, err
}

// ReadSegment resolves loc.FileID to its source path under root and
// returns exactly the bytes in [loc.Start, loc.End). It does not validate
// that the range ends on a "$$$$" terminator; a locator decoded from a
// record written by BuildIndex always does (see DESIGN.md).
func (h *IndexHandle) ReadSegment(root string, loc locator.Locator) ([]byte, error) {
	if root == "" {
		root = h.rootDir
	}
	var relPath string
	var ok bool
	err := h.store.View(func(tx *sdfstore.Tx) error {
		relPath, ok = tx.PathByFileID(uint64(loc.FileID))
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: unknown file_id %d", ErrFileIO, loc.FileID)
	}

	f, err := os.Open(filepath.Join(root, relPath))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileIO, err)
	}
	defer f.Close()

	if loc.End < loc.Start {
		return nil, fmt.Errorf("%w: locator has end < start", ErrCorruptLocator)
	}
	n := loc.End - loc.Start
	buf := make([]byte, n)
	if _, err := f.ReadAt(buf, int64(loc.Start)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileIO, err)
	}
	return buf, nil
}
