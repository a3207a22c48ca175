package sdfindex

import (
	"strings"

	"github.com/rpcpool/pubchem-faithful/sdfparse"
)

// DefaultConformerNamePatterns and DefaultCompoundNamePatterns are the
// filename substrings classify() matches against, checked in this order
// (conformer first).
var (
	DefaultConformerNamePatterns = []string{"conformer", "conformers", "conf"}
	DefaultCompoundNamePatterns  = []string{"compound", "compounds", "cmpd"}
)

// classify picks a FileKind for a source file based on its basename.
// "conf" as a substring forces conformer classification (the other
// conformer patterns all contain it); anything else defaults to
// compound, including files that don't match any pattern at all.
//
// TODO: classify by probing the first few records for a conformer-id field
// instead of trusting the filename; the patterns would then only bias
// which kind to try first.
func classify(basename string, conformerPatterns, compoundPatterns []string) sdfparse.FileKind {
	lower := strings.ToLower(basename)
	for _, pat := range conformerPatterns {
		if strings.Contains(lower, pat) {
			return sdfparse.KindConformer
		}
	}
	for _, pat := range compoundPatterns {
		if strings.Contains(lower, pat) {
			return sdfparse.KindCompound
		}
	}
	return sdfparse.KindCompound
}
