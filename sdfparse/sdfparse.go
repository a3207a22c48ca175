// Package sdfparse implements the single-pass, byte-level scanner over one
// SDF file: it never loads a whole file into memory, instead streaming
// buffered reads and yielding record boundaries plus the handful of
// identifier fields the index needs, the same way a CAR section reader
// streams one section at a time instead of materializing the whole archive.
package sdfparse

import (
	"bufio"
	"bytes"
	"io"
)

// bufSize is the minimum buffered-read size (>= 64 KiB).
const bufSize = 256 * 1024

// FileKind classifies the SDF file being scanned, which determines how the
// title line and primary identifier are interpreted.
type FileKind int

const (
	KindCompound FileKind = iota
	KindConformer
)

// state is the per-record parser state: AwaitingTitle -> InBody ->
// InPropertyHeader -> InPropertyValue -> AwaitingTerminator, with `$$$$`
// forcing a transition to record-complete (AwaitingTitle) from any state.
type state int

const (
	stateAwaitingTitle state = iota
	stateInBody
	stateInPropertyHeader
	stateInPropertyValue
	stateAwaitingTerminator
)

// Default field-name candidate sets for identifier extraction.
var (
	DefaultCIDFields = []string{
		"CID", "PUBCHEM_COMPOUND_CID", "PUBCHEM_CID", "COMPOUND_CID",
	}
	DefaultConformerIDFields = []string{
		"CONFORMER_ID", "CONFID", "PUBCHEM_CONFORMER_ID", "CONFORMERID",
	}
	DefaultParentCIDFields = append(
		append([]string{}, DefaultCIDFields...),
		"PARENT_CID",
	)
)

// Record is one parsed SDF record: its byte range, its 0-based index
// within the file, and whichever identifier fields were found.
type Record struct {
	Start        int64
	End          int64
	RecNo        int
	CID          int64 // -1 if absent
	HasCID       bool
	ConformerID  string
	ParentCID    int64 // -1 if absent
	HasParentCID bool
}

// Option configures a Parser.
type Option func(*Parser)

// WithCIDFields overrides the CID field-name candidate set.
func WithCIDFields(names []string) Option {
	return func(p *Parser) { p.cidFields = normalizeSet(names) }
}

// WithConformerIDFields overrides the conformer-id field-name candidate set.
func WithConformerIDFields(names []string) Option {
	return func(p *Parser) { p.confIDFields = normalizeSet(names) }
}

// WithParentCIDFields overrides the parent-CID field-name candidate set.
func WithParentCIDFields(names []string) Option {
	return func(p *Parser) { p.parentCIDFields = normalizeSet(names) }
}

// Parser streams records out of a single SDF file.
type Parser struct {
	br   *bufio.Reader
	kind FileKind

	cidFields       map[string]bool
	confIDFields    map[string]bool
	parentCIDFields map[string]bool

	offset int64
	recNo  int
}

// New creates a Parser over r, which is scanned exactly once from its
// current position.
func New(r io.Reader, kind FileKind, opts ...Option) *Parser {
	p := &Parser{
		br:              bufio.NewReaderSize(r, bufSize),
		kind:            kind,
		cidFields:       normalizeSet(DefaultCIDFields),
		confIDFields:    normalizeSet(DefaultConformerIDFields),
		parentCIDFields: normalizeSet(DefaultParentCIDFields),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func normalizeSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[normalizeFieldName(n)] = true
	}
	return set
}

// Next returns the next complete record, or io.EOF once the file is
// exhausted. A trailing partial record (no terminating `$$$$` line) is
// silently discarded.
func (p *Parser) Next() (*Record, error) {
	st := stateAwaitingTitle
	recStart := p.offset
	rec := &Record{CID: -1, ParentCID: -1}

	var curPropName string
	var curPropHasValue bool

	for {
		line, err := p.readLine()
		if len(line) == 0 && err != nil {
			// Nothing left to read at all.
			if err == io.EOF {
				return nil, io.EOF
			}
			return nil, err
		}

		stripped := stripEOL(line)
		trimmed := bytes.TrimSpace(stripped)

		if bytes.Equal(trimmed, []byte("$$$$")) {
			rec.Start = recStart
			rec.End = p.offset
			rec.RecNo = p.recNo
			p.recNo++
			return rec, nil
		}

		switch st {
		case stateAwaitingTitle:
			p.handleTitleLine(rec, trimmed)
			st = stateInBody
		case stateInBody, stateAwaitingTerminator:
			if isPropertyHeader(trimmed) {
				curPropName = normalizeFieldName(extractFieldName(trimmed))
				curPropHasValue = false
				st = stateInPropertyHeader
			}
			// else: unrecognized body line, stay put (molfile atom/bond
			// block, blank separators between properties, etc).
		case stateInPropertyHeader, stateInPropertyValue:
			if len(trimmed) == 0 {
				st = stateAwaitingTerminator
				continue
			}
			if !curPropHasValue {
				p.handlePropertyValue(rec, curPropName, trimmed)
				curPropHasValue = true
			}
			st = stateInPropertyValue
		}

		if err == io.EOF {
			// EOF with no terminator: discard the partial trailing record.
			return nil, io.EOF
		}
	}
}

// handleTitleLine: for compound files, a pure ASCII-digit title line is
// taken as the CID.
func (p *Parser) handleTitleLine(rec *Record, title []byte) {
	if p.kind != KindCompound {
		return
	}
	if cid, ok := parseDigits(title); ok {
		rec.CID = cid
		rec.HasCID = true
	}
}

func (p *Parser) handlePropertyValue(rec *Record, propName string, value []byte) {
	switch {
	case p.cidFields[propName] && !rec.HasCID:
		if cid, ok := parseDigits(value); ok {
			rec.CID = cid
			rec.HasCID = true
		}
	case p.confIDFields[propName] && rec.ConformerID == "":
		rec.ConformerID = string(decodeUTF8Lenient(value))
	}
	// Parent-CID fields are only meaningful for conformer records, but the
	// candidate set overlaps the CID set; capture it unconditionally and
	// let the builder decide which to use based on record kind.
	if p.parentCIDFields[propName] && !rec.HasParentCID {
		if cid, ok := parseDigits(value); ok {
			rec.ParentCID = cid
			rec.HasParentCID = true
		}
	}
}

// readLine reads one line (including its terminator, if any) and advances
// p.offset by the number of bytes consumed.
func (p *Parser) readLine() ([]byte, error) {
	line, err := p.br.ReadBytes('\n')
	p.offset += int64(len(line))
	return line, err
}

func stripEOL(line []byte) []byte {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	return line
}

func isPropertyHeader(line []byte) bool {
	return bytes.HasPrefix(line, []byte("> <")) && bytes.HasSuffix(line, []byte(">"))
}

// extractFieldName pulls FIELDNAME out of a "> <FIELDNAME>" line: the text
// between "> <" and the first '>' after it. A header with text after its
// closing '>', such as "> <CID>  (1)", is not accepted by isPropertyHeader
// and never reaches here.
func extractFieldName(line []byte) string {
	rest := line[len("> <"):]
	if idx := bytes.IndexByte(rest, '>'); idx >= 0 {
		rest = rest[:idx]
	}
	return string(rest)
}

func normalizeFieldName(name string) string {
	trimmed := bytes.TrimSpace([]byte(name))
	upper := bytes.ToUpper(trimmed)
	return string(upper)
}

// parseDigits accepts only pure ASCII-digit content, returning the parsed
// value as an int64. Values that don't fit or contain non-digits are
// silently rejected (ok=false).
func parseDigits(b []byte) (int64, bool) {
	if len(b) == 0 {
		return 0, false
	}
	var v int64
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		d := int64(c - '0')
		if v > (1<<63-1-d)/10 {
			// would overflow int64; reject rather than silently wrap.
			return 0, false
		}
		v = v*10 + d
	}
	return v, true
}

// decodeUTF8Lenient returns b with each run of malformed UTF-8 bytes
// replaced by U+FFFD. A plain []byte->string conversion would keep the
// invalid bytes as they are (replacement only happens on rune-by-rune
// iteration), so the input is normalized through
// bytes.ToValidUTF8 to get the � replacement explicitly.
func decodeUTF8Lenient(b []byte) []byte {
	return bytes.ToValidUTF8(b, []byte("�"))
}
