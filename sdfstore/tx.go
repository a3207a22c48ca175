package sdfstore

import (
	"encoding/binary"

	bolt "go.etcd.io/bbolt"
)

// Tx wraps a single bbolt transaction (read-write or read-only) with typed
// accessors for each of the index's sub-tables. A Tx must not outlive the
// Update/View call that created it.
type Tx struct {
	btx *bolt.Tx
}

func (tx *Tx) bucket(name []byte) *bolt.Bucket {
	return tx.btx.Bucket(name)
}

var metaKeyNextFileID = []byte("next_file_id")

// NextFileID allocates and persists the next monotonic file_id, starting
// at 1. It must be called inside an Update transaction.
func (tx *Tx) NextFileID() uint64 {
	b := tx.bucket(bucketMeta)
	var next uint64 = 1
	if raw := b.Get(metaKeyNextFileID); raw != nil {
		next = binary.LittleEndian.Uint64(raw) + 1
	}
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, next)
	b.Put(metaKeyNextFileID, buf)
	return next
}

// PutFile records the bijection between a file_id and its repository
// relative path in both directions.
func (tx *Tx) PutFile(fileID uint64, relPath string) error {
	if err := tx.bucket(bucketFiles).Put(fileIDKey(fileID), []byte(relPath)); err != nil {
		return err
	}
	return tx.bucket(bucketFilesRev).Put([]byte(relPath), fileIDKey(fileID))
}

// GetOrCreateFileID returns the file_id already assigned to relPath, or
// allocates and persists a new one if this is the first time relPath has
// been seen. Reusing the existing id across a rebuild into the same index
// directory keeps the file_id<->path bijection stable (spec invariant 1)
// instead of stranding the old entry under a fresh id.
func (tx *Tx) GetOrCreateFileID(relPath string) (uint64, error) {
	if id, ok := tx.FileIDByPath(relPath); ok {
		return id, nil
	}
	id := tx.NextFileID()
	if err := tx.PutFile(id, relPath); err != nil {
		return 0, err
	}
	return id, nil
}

// FileIDByPath returns the file_id previously assigned to relPath, if any.
func (tx *Tx) FileIDByPath(relPath string) (uint64, bool) {
	raw := tx.bucket(bucketFilesRev).Get([]byte(relPath))
	if raw == nil {
		return 0, false
	}
	return decodeFileID(raw), true
}

// PathByFileID returns the relative path assigned to fileID, if any.
func (tx *Tx) PathByFileID(fileID uint64) (string, bool) {
	raw := tx.bucket(bucketFiles).Get(fileIDKey(fileID))
	if raw == nil {
		return "", false
	}
	return string(raw), true
}

// PutRecord writes a record's primary key -> encoded locator entry.
func (tx *Tx) PutRecord(key [PrimaryKeySize]byte, locator [32]byte) error {
	return tx.bucket(bucketRecords).Put(key[:], locator[:])
}

// GetRecord reads the encoded locator for a primary key, if present.
func (tx *Tx) GetRecord(key []byte) ([]byte, bool) {
	raw := tx.bucket(bucketRecords).Get(key)
	if raw == nil {
		return nil, false
	}
	// bbolt values are only valid for the lifetime of the transaction;
	// callers that need to keep the bytes beyond it must copy.
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, true
}

// PutCIDToCompound indexes a compound's CID to its primary record key.
func (tx *Tx) PutCIDToCompound(cid int64, primaryKey [PrimaryKeySize]byte) error {
	return tx.bucket(bucketCIDToCompound).Put(cidKey(cid), primaryKey[:])
}

// GetCIDToCompound resolves a CID to a primary record key.
func (tx *Tx) GetCIDToCompound(cid int64) ([]byte, bool) {
	raw := tx.bucket(bucketCIDToCompound).Get(cidKey(cid))
	if raw == nil {
		return nil, false
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, true
}

// PutConfIDToConf indexes a conformer-id to its primary record key.
// Last write wins on collision, matching the builder's documented
// overwrite semantics.
func (tx *Tx) PutConfIDToConf(confID string, primaryKey [PrimaryKeySize]byte) error {
	return tx.bucket(bucketConfIDToConf).Put([]byte(confID), primaryKey[:])
}

// GetConfIDToConf resolves a conformer-id to a primary record key.
func (tx *Tx) GetConfIDToConf(confID string) ([]byte, bool) {
	raw := tx.bucket(bucketConfIDToConf).Get([]byte(confID))
	if raw == nil {
		return nil, false
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, true
}
