package sdfindex

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// walkSDFFiles enumerates every *.sdf file under root, returning their
// paths relative to root with forward-slash separators, sorted
// lexicographically. The sort is load-bearing: file_ids are assigned and
// conformer posting lists are appended in this order, so two builds over
// the same tree only agree if the enumeration order is stable.
func walkSDFFiles(root string) ([]string, error) {
	var rels []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".sdf") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rels = append(rels, normalizeRelPath(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(rels)
	return rels, nil
}

// normalizeRelPath converts platform path separators to forward slashes,
// as required for the path stored in the files table.
func normalizeRelPath(rel string) string {
	return filepath.ToSlash(rel)
}
