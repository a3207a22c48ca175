package sdfindex

import "github.com/rpcpool/pubchem-faithful/locator"

// IndexHit is a resolved lookup result: the record's ALID plus its decoded
// byte-range locator. Callers decode record text themselves; the engine
// imposes no character-set semantics on record bodies.
type IndexHit struct {
	ALID    [16]byte
	Locator locator.Locator
}
