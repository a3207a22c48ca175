// Package locator implements the fixed-size binary encoding used to point
// at a single SDF record's byte range inside a specific source file.
package locator

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Size is the encoded length of a Locator in bytes.
const Size = 32

const flagConformer = 1 << 0

// absentCID is the sentinel stored in the cid slot when a record carries no CID.
const absentCID = -1

// ErrCorruptLocator is returned by Decode when the buffer does not hold a
// well-formed Locator (wrong length, or a cid sentinel other than -1 that is
// still negative).
var ErrCorruptLocator = errors.New("locator: corrupt record locator")

// Locator points at a half-open byte range [Start, End) inside the file
// identified by FileID, plus the denormalized kind/CID of the record that
// lives there.
type Locator struct {
	FileID      uint32
	Start       uint64
	End         uint64
	IsConformer bool
	CID         int64 // absentCID (-1) means "no CID known"
}

// HasCID reports whether the locator carries a known CID.
func (l Locator) HasCID() bool {
	return l.CID != absentCID
}

// Encode packs l into a 32-byte little-endian buffer. Encode is pure and
// infallible; it does not check the preconditions (file_id >= 1,
// start <= end, end <= 2^63), so a violating input is packed as given and
// Decode does not reject it either. A negative CID is stored as the absent
// sentinel.
func Encode(l Locator) [Size]byte {
	var buf [Size]byte
	binary.LittleEndian.PutUint32(buf[0:4], l.FileID)
	binary.LittleEndian.PutUint64(buf[4:12], l.Start)
	binary.LittleEndian.PutUint64(buf[12:20], l.End)

	var flags uint16
	if l.IsConformer {
		flags |= flagConformer
	}
	binary.LittleEndian.PutUint16(buf[20:22], flags)

	cid := l.CID
	if cid < 0 {
		cid = absentCID
	}
	binary.LittleEndian.PutUint64(buf[22:30], uint64(cid))
	// buf[30:32] is reserved and left zero.
	return buf
}

// Decode unpacks a 32-byte buffer into a Locator. It returns
// ErrCorruptLocator if the buffer is not exactly Size bytes, or if the
// decoded cid is negative but not the absent sentinel.
func Decode(buf []byte) (Locator, error) {
	if len(buf) != Size {
		return Locator{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrCorruptLocator, Size, len(buf))
	}
	fileID := binary.LittleEndian.Uint32(buf[0:4])
	start := binary.LittleEndian.Uint64(buf[4:12])
	end := binary.LittleEndian.Uint64(buf[12:20])
	flags := binary.LittleEndian.Uint16(buf[20:22])
	cidRaw := int64(binary.LittleEndian.Uint64(buf[22:30]))

	cid := cidRaw
	if cidRaw != absentCID && cidRaw < 0 {
		return Locator{}, fmt.Errorf("%w: invalid cid sentinel %d", ErrCorruptLocator, cidRaw)
	}

	return Locator{
		FileID:      fileID,
		Start:       start,
		End:         end,
		IsConformer: flags&flagConformer != 0,
		CID:         cid,
	}, nil
}

// MustEncode is a test/debug convenience wrapper that panics on an
// out-of-range input instead of silently packing it as Encode does.
func MustEncode(l Locator) [Size]byte {
	if l.FileID < 1 {
		panic("locator: file_id must be >= 1")
	}
	if l.Start > l.End {
		panic("locator: start must be <= end")
	}
	if l.End > 1<<63 {
		panic("locator: end exceeds 2^63")
	}
	return Encode(l)
}
