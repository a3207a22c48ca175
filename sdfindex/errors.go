package sdfindex

import "errors"

// Error kinds surfaced from the core. NotFound is never one of these: it is
// represented as a plain boolean/nil return, never an error value, at every
// lookup operation below.
var (
	// ErrCorruptLocator means a records-table value was not a well-formed
	// 32-byte locator.
	ErrCorruptLocator = errors.New("sdfindex: corrupt locator")

	// ErrFileIO covers a missing, unreadable, or short source file —
	// anything that prevents materializing record bytes from disk.
	ErrFileIO = errors.New("sdfindex: source file I/O error")

	// ErrStoreIO covers an underlying key-value engine failure during a
	// build; it aborts the current write transaction.
	ErrStoreIO = errors.New("sdfindex: store I/O error")

	// ErrSchemaMismatch means the opened store's recorded schema_version
	// does not match what this build of the code expects.
	ErrSchemaMismatch = errors.New("sdfindex: schema version mismatch")
)

// danglingReference logs (but never returns to the caller as an error) a
// secondary-index entry that points at a record key absent from the
// records table. Reads treat this exactly like NotFound.
type danglingReference struct {
	table string
	key   string
}
