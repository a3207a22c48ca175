package sdfindex

import (
	"fmt"

	"github.com/google/uuid"
)

// ALIDNamespace is the fixed RFC-4122 namespace ALIDs are derived under:
// the standard URL namespace.
var ALIDNamespace = uuid.NameSpaceURL

// kindCompoundSeed and kindConformerSeed are the string forms of a
// record's kind used in ALID seed strings; it intentionally does not reuse locator/sdfparse vocabulary so
// that a rename of either does not silently change generated ALIDs.
const (
	kindCompoundSeed  = "compound"
	kindConformerSeed = "conformer"
)

// DeriveALID computes the deterministic ALID for a record: an RFC-4122 v5
// UUID (SHA-1 based) over "{kind}|{relpath}|{rec_no}|{primary_id}" under
// ALIDNamespace. Two builds over identical bytes, with the same sorted
// file-walk order, always produce identical ALIDs for identical records.
func DeriveALID(isConformer bool, relPath string, recNo int, primaryID string) [16]byte {
	kind := kindCompoundSeed
	if isConformer {
		kind = kindConformerSeed
	}
	seed := fmt.Sprintf("%s|%s|%d|%s", kind, relPath, recNo, primaryID)
	u := uuid.NewSHA1(ALIDNamespace, []byte(seed))
	return [16]byte(u)
}
