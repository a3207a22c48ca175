package sdfparse

import (
	"io"
	"strings"
	"testing"
)

func TestSingleCompoundRecord(t *testing.T) {
	src := "2244\n" +
		"  -OEChem-01012024\n\n" +
		"  1  0  0  0  0  0  0  0  0  0999 V2000\n" +
		"M  END\n" +
		"> <PUBCHEM_COMPOUND_CID>\n" +
		"2244\n" +
		"\n" +
		"$$$$\n"

	p := New(strings.NewReader(src), KindCompound)
	rec, err := p.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if rec.Start != 0 {
		t.Fatalf("expected start 0, got %d", rec.Start)
	}
	if int(rec.End) != len(src) {
		t.Fatalf("expected end %d, got %d", len(src), rec.End)
	}
	if !rec.HasCID || rec.CID != 2244 {
		t.Fatalf("expected cid 2244, got %+v", rec)
	}

	_, err = p.Next()
	if err != io.EOF {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestConformerRecordWithParent(t *testing.T) {
	src := "0000000100000001\n\n\n" +
		"> <PUBCHEM_CONFORMER_ID>\n" +
		"0000000100000001\n" +
		"\n" +
		"> <PUBCHEM_COMPOUND_CID>\n" +
		"1\n" +
		"\n" +
		"$$$$\n"

	p := New(strings.NewReader(src), KindConformer)
	rec, err := p.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if rec.ConformerID != "0000000100000001" {
		t.Fatalf("expected conformer id, got %q", rec.ConformerID)
	}
	if !rec.HasParentCID || rec.ParentCID != 1 {
		t.Fatalf("expected parent cid 1, got %+v", rec)
	}
}

func TestMultipleRecordsInOneFile(t *testing.T) {
	one := "1\n\n\n> <CID>\n1\n\n$$$$\n"
	two := "2\n\n\n> <CID>\n2\n\n$$$$\n"
	p := New(strings.NewReader(one+two), KindCompound)

	r1, err := p.Next()
	if err != nil {
		t.Fatalf("Next#1: %v", err)
	}
	if r1.RecNo != 0 || r1.CID != 1 {
		t.Fatalf("unexpected r1: %+v", r1)
	}
	if int(r1.Start) != 0 || int(r1.End) != len(one) {
		t.Fatalf("unexpected r1 range: %+v", r1)
	}

	r2, err := p.Next()
	if err != nil {
		t.Fatalf("Next#2: %v", err)
	}
	if r2.RecNo != 1 || r2.CID != 2 {
		t.Fatalf("unexpected r2: %+v", r2)
	}
	if int(r2.Start) != len(one) || int(r2.End) != len(one)+len(two) {
		t.Fatalf("unexpected r2 range: %+v", r2)
	}

	if _, err := p.Next(); err != io.EOF {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestTrailingPartialRecordDiscarded(t *testing.T) {
	src := "1\n\n\n> <CID>\n1\n\n$$$$\n" + "2\n\n\nno terminator here"
	p := New(strings.NewReader(src), KindCompound)

	if _, err := p.Next(); err != nil {
		t.Fatalf("Next#1: %v", err)
	}
	if _, err := p.Next(); err != io.EOF {
		t.Fatalf("expected EOF discarding partial trailing record, got %v", err)
	}
}

func TestCRLFTolerated(t *testing.T) {
	src := "2244\r\n\r\n\r\n> <CID>\r\n2244\r\n\r\n$$$$\r\n"
	p := New(strings.NewReader(src), KindCompound)
	rec, err := p.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if !rec.HasCID || rec.CID != 2244 {
		t.Fatalf("expected cid 2244, got %+v", rec)
	}
}

func TestNonDigitCIDIgnored(t *testing.T) {
	src := "not-a-cid\n\n\n> <CID>\nabc123\n\n$$$$\n"
	p := New(strings.NewReader(src), KindCompound)
	rec, err := p.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if rec.HasCID {
		t.Fatalf("expected no cid, got %+v", rec)
	}
}

func TestFirstMatchingOccurrenceWins(t *testing.T) {
	src := "1\n\n\n" +
		"> <PUBCHEM_CID>\n111\n\n" +
		"> <CID>\n222\n\n" +
		"$$$$\n"
	p := New(strings.NewReader(src), KindCompound)
	rec, err := p.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if rec.CID != 1 {
		t.Fatalf("expected title-line cid 1 to win (first match), got %+v", rec)
	}
}
