package sdfstore

import "fmt"

// ErrSchemaMismatch is returned by Tx.CheckSchema when an existing store's
// recorded schema_version does not match SchemaVersion; Open itself does
// not check it.
type ErrSchemaMismatch struct {
	Got, Want int
}

func (e ErrSchemaMismatch) Error() string {
	return fmt.Sprintf("sdfstore: schema mismatch: index has version %d, code expects %d", e.Got, e.Want)
}
