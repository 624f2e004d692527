package model

import (
	"path/filepath"
	"strings"
)

// RomEntry is a single launchable item in the catalog. Entries are built
// wholesale during a catalog scan and never mutated afterwards.
type RomEntry struct {
	System       string `json:"system"`
	Filename     string `json:"filename"`
	Title        string `json:"title"`
	Year         string `json:"year,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
	Clone        bool   `json:"clone,omitempty"`
}

// Stem returns the filename without directory components or extension. The
// stem is the identity used for metadata and artwork lookups.
func (e RomEntry) Stem() string {
	base := filepath.Base(filepath.FromSlash(e.Filename))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Diagnostic records a non-fatal problem discovered while building the
// catalog, e.g. a malformed descriptor entry or an unreadable directory.
type Diagnostic struct {
	System string `json:"system"`
	Source string `json:"source"`
	Detail string `json:"detail"`
}
