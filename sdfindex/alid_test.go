package sdfindex

import "testing"

func TestDeriveALIDDeterministic(t *testing.T) {
	a := DeriveALID(false, "compound/c1.sdf", 0, "2244")
	b := DeriveALID(false, "compound/c1.sdf", 0, "2244")
	if a != b {
		t.Fatalf("expected identical ALIDs for identical inputs, got %x vs %x", a, b)
	}
}

func TestDeriveALIDVariesWithKind(t *testing.T) {
	compound := DeriveALID(false, "compound/c1.sdf", 0, "1")
	conformer := DeriveALID(true, "compound/c1.sdf", 0, "1")
	if compound == conformer {
		t.Fatal("expected kind to change the derived ALID")
	}
}

func TestDeriveALIDVariesWithRecNo(t *testing.T) {
	first := DeriveALID(false, "compound/c1.sdf", 0, "1")
	second := DeriveALID(false, "compound/c1.sdf", 1, "1")
	if first == second {
		t.Fatal("expected record index to change the derived ALID")
	}
}
