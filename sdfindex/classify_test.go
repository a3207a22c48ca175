package sdfindex

import (
	"testing"

	"github.com/rpcpool/pubchem-faithful/sdfparse"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		basename string
		want     sdfparse.FileKind
	}{
		{"Compound_099000001_099025000.sdf", sdfparse.KindCompound},
		{"Conformer3D_07000001_07025000.sdf", sdfparse.KindConformer},
		{"conformers_batch_01.sdf", sdfparse.KindConformer},
		{"cmpd-misc.sdf", sdfparse.KindCompound},
		{"unrelated-name.sdf", sdfparse.KindCompound},
		{"has-conf-substring.sdf", sdfparse.KindConformer},
	}
	for _, c := range cases {
		got := classify(c.basename, DefaultConformerNamePatterns, DefaultCompoundNamePatterns)
		if got != c.want {
			t.Errorf("classify(%q) = %v, want %v", c.basename, got, c.want)
		}
	}
}
