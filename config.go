package main

import (
	"fmt"
	"os"
)

// ConfigVersion tracks the shape of any on-disk config this CLI reads in
// the future; no subcommand currently requires a config file, so nothing
// parses it yet, but the constant is kept so one can be added without a
// silent compatibility break.
const ConfigVersion = 1

// PathSource is a local filesystem path supplied on the command line. This
// domain only ever reads and writes local paths, so validation stays
// narrow compared to a source type that also has to cover remote or
// content-addressed locations.
type PathSource string

// IsZero reports whether the path was left unset.
func (p PathSource) IsZero() bool {
	return p == ""
}

// MustExistAsDir validates that p names an existing directory, returning a
// descriptive error tagged with flagName for CLI usage errors.
func (p PathSource) MustExistAsDir(flagName string) error {
	if p.IsZero() {
		return fmt.Errorf("%s must be set", flagName)
	}
	info, err := os.Stat(string(p))
	if err != nil {
		return fmt.Errorf("%s %q: %w", flagName, p, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s %q is not a directory", flagName, p)
	}
	return nil
}
