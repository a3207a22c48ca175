package sdfstore

import (
	"encoding/json"
	"fmt"
)

var metaKeyJSON = []byte("meta_json")

// Meta is the JSON document stored under meta/meta_json, describing the
// index as a whole.
type Meta struct {
	SchemaVersion         int    `json:"schema_version"`
	RootDir               string `json:"root_dir"`
	BuiltAt               string `json:"built_at"`
	PLPageSize            uint32 `json:"pl_page_size"`
	TotalFiles            uint64 `json:"total_files"`
	TotalRecords          uint64 `json:"total_records"`
	TotalCompoundRecords  uint64 `json:"total_compound_records"`
	TotalConformerRecords uint64 `json:"total_conformer_records"`
}

// PutMeta overwrites the stored meta document.
func (tx *Tx) PutMeta(m Meta) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("sdfstore: marshal meta: %w", err)
	}
	return tx.bucket(bucketMeta).Put(metaKeyJSON, raw)
}

// GetMeta reads the stored meta document. ok is false if the store has
// never had a build committed.
func (tx *Tx) GetMeta() (m Meta, ok bool, err error) {
	raw := tx.bucket(bucketMeta).Get(metaKeyJSON)
	if raw == nil {
		return Meta{}, false, nil
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return Meta{}, false, fmt.Errorf("sdfstore: unmarshal meta: %w", err)
	}
	return m, true, nil
}

// CheckSchema reads the stored meta (if any) and returns ErrSchemaMismatch
// if its schema_version disagrees with SchemaVersion.
func (tx *Tx) CheckSchema() error {
	m, ok, err := tx.GetMeta()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if m.SchemaVersion != SchemaVersion {
		return ErrSchemaMismatch{Got: m.SchemaVersion, Want: SchemaVersion}
	}
	return nil
}
