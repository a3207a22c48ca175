package sdfstore

import (
	"encoding/binary"
	"fmt"
)

// Prefix bytes for primary record keys.
const (
	PrefixCompound  byte = 'C'
	PrefixConformer byte = 'F'
)

// PrimaryKeySize is the length of a primary record key: one prefix byte
// plus a 16-byte ALID.
const PrimaryKeySize = 1 + 16

// PrimaryKey builds the 17-byte records-table key for a record of the
// given kind and ALID.
func PrimaryKey(prefix byte, alid [16]byte) [PrimaryKeySize]byte {
	var key [PrimaryKeySize]byte
	key[0] = prefix
	copy(key[1:], alid[:])
	return key
}

// SplitPrimaryKey decodes a 17-byte primary key back into its prefix and
// ALID.
func SplitPrimaryKey(key []byte) (prefix byte, alid [16]byte, err error) {
	if len(key) != PrimaryKeySize {
		return 0, alid, fmt.Errorf("sdfstore: primary key must be %d bytes, got %d", PrimaryKeySize, len(key))
	}
	prefix = key[0]
	copy(alid[:], key[1:])
	return prefix, alid, nil
}

func fileIDKey(fileID uint64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, fileID)
	return buf
}

func decodeFileID(buf []byte) uint64 {
	return binary.LittleEndian.Uint64(buf)
}

func cidKey(cid int64) []byte {
	return []byte(fmt.Sprintf("%d", cid))
}

func postingPageKey(cid int64, pageNo uint32) []byte {
	return []byte(fmt.Sprintf("%d|%d", cid, pageNo))
}
