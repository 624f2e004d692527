// Package catalog builds the in-memory rom catalog from per-system
// descriptor files and rom directory listings. A build produces an
// immutable Snapshot; readers never see a partially built catalog.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xxxsen/retronav/internal/dat"
	"github.com/xxxsen/retronav/internal/model"
	"github.com/xxxsen/retronav/internal/system"
	"github.com/xxxsen/retronav/internal/titles"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// romExtensions lists the file suffixes treated as launchable roms for the
// flat per-system listing.
var romExtensions = map[string]struct{}{
	".zip": {},
	".7z":  {},
	".cue": {},
}

// hiddenSets are set names that never appear in the catalog regardless of
// the descriptor content (e.g. the Neo-Geo CD loader disc).
var hiddenSets = map[string]struct{}{
	"neocdz": {},
}

// Snapshot is one complete, immutable build of the catalog.
type Snapshot struct {
	builtAt time.Time
	systems map[string][]model.RomEntry
}

// NewSnapshot assembles a snapshot from prebuilt entry lists. Useful for
// consumers that derive views without touching the filesystem.
func NewSnapshot(systems map[string][]model.RomEntry) *Snapshot {
	if systems == nil {
		systems = map[string][]model.RomEntry{}
	}
	return &Snapshot{builtAt: time.Now(), systems: systems}
}

// System returns the entries for a system key in enumeration order. The
// returned slice must be treated as read-only.
func (s *Snapshot) System(key string) []model.RomEntry {
	if s == nil {
		return nil
	}
	return s.systems[key]
}

// Len returns the total entry count across systems.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	total := 0
	for _, entries := range s.systems {
		total += len(entries)
	}
	return total
}

// BuiltAt reports when the snapshot was assembled.
func (s *Snapshot) BuiltAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.builtAt
}

// withSystem derives a new snapshot with one system's entries replaced.
func (s *Snapshot) withSystem(key string, entries []model.RomEntry) *Snapshot {
	next := &Snapshot{
		builtAt: time.Now(),
		systems: make(map[string][]model.RomEntry, len(s.systems)+1),
	}
	if s != nil {
		for k, v := range s.systems {
			next.systems[k] = v
		}
	}
	next.systems[key] = entries
	return next
}

// Builder assembles snapshots from the registry's descriptors.
type Builder struct {
	reg *system.Registry
}

// NewBuilder builds a catalog builder over the given registry.
func NewBuilder(reg *system.Registry) *Builder {
	return &Builder{reg: reg}
}

// Build scans every registered system and returns a complete snapshot plus
// the diagnostics collected along the way. Per-system and per-entry
// failures never abort the build.
func (b *Builder) Build(ctx context.Context) (*Snapshot, []model.Diagnostic) {
	snap := &Snapshot{
		builtAt: time.Now(),
		systems: make(map[string][]model.RomEntry, len(b.reg.Keys())),
	}
	var diags []model.Diagnostic
	for _, desc := range b.reg.Systems() {
		entries, sysDiags := b.BuildSystem(ctx, desc)
		snap.systems[desc.Key] = entries
		diags = append(diags, sysDiags...)
	}
	logutil.GetLogger(ctx).Info("catalog built",
		zap.Int("systems", len(snap.systems)),
		zap.Int("entries", snap.Len()),
		zap.Int("diagnostics", len(diags)),
	)
	return snap, diags
}

// BuildSystem scans a single system into its entry list.
func (b *Builder) BuildSystem(ctx context.Context, desc *system.Descriptor) ([]model.RomEntry, []model.Diagnostic) {
	logger := logutil.GetLogger(ctx)
	var diags []model.Diagnostic
	diag := func(source, format string, args ...interface{}) {
		d := model.Diagnostic{System: desc.Key, Source: source, Detail: fmt.Sprintf(format, args...)}
		diags = append(diags, d)
		logger.Warn("catalog diagnostic",
			zap.String("system", d.System),
			zap.String("source", d.Source),
			zap.String("detail", d.Detail),
		)
	}

	files, err := enumerateRoms(desc)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			diag(desc.RomDir, "enumerate roms: %v", err)
		}
		return nil, diags
	}

	var meta map[string]dat.Meta
	if desc.DatFile != "" && !desc.SkipDatLookup {
		df, err := dat.NewParser().ParseFile(desc.DatFile)
		if err != nil {
			diag(desc.DatFile, "parse descriptor: %v", err)
		} else {
			var nameless int
			meta, nameless = df.Lookup()
			for i := 0; i < nameless; i++ {
				diag(desc.DatFile, "descriptor entry without a set name skipped")
			}
		}
	}

	var fallback map[string]string
	if desc.TitlesFile != "" && !desc.SkipDatLookup {
		fallback, err = titles.ParseFile(desc.TitlesFile)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				diag(desc.TitlesFile, "parse titles: %v", err)
			}
			fallback = nil
		}
	}

	entries := make([]model.RomEntry, 0, len(files))
	for _, filename := range files {
		entry := model.RomEntry{System: desc.Key, Filename: filename}
		stem := strings.ToLower(entry.Stem())
		if _, hidden := hiddenSets[stem]; hidden {
			continue
		}
		switch {
		case desc.SkipDatLookup:
			// Neo-Geo CD family: the title always derives from the filename.
			entry.Title = entry.Stem()
		case len(meta) > 0:
			m, ok := meta[stem]
			if !ok {
				// A non-empty descriptor is authoritative: files it does not
				// know are not games (bios, leftovers) and are dropped.
				continue
			}
			entry.Title = m.Title
			entry.Year = m.Year
			entry.Manufacturer = m.Manufacturer
			entry.Clone = m.Clone
		default:
			if title, ok := fallback[stem]; ok {
				entry.Title = title
			} else {
				entry.Title = entry.Stem()
			}
		}
		entries = append(entries, entry)
	}
	return entries, diags
}

// enumerateRoms lists the launchable files for a system in filesystem
// enumeration order. Recursive systems collect .cue sheets with their
// rom-dir-relative path as the filename.
func enumerateRoms(desc *system.Descriptor) ([]string, error) {
	if desc.RomDir == "" {
		return nil, os.ErrNotExist
	}
	if desc.RecursiveCue {
		var found []string
		err := filepath.WalkDir(desc.RomDir, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() || !strings.EqualFold(filepath.Ext(d.Name()), ".cue") {
				return nil
			}
			rel, err := filepath.Rel(desc.RomDir, path)
			if err != nil {
				return err
			}
			found = append(found, filepath.ToSlash(rel))
			return nil
		})
		if err != nil {
			return nil, err
		}
		return found, nil
	}

	dirents, err := os.ReadDir(desc.RomDir)
	if err != nil {
		return nil, err
	}
	var found []string
	for _, ent := range dirents {
		if ent.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(ent.Name()))
		if _, ok := romExtensions[ext]; !ok {
			continue
		}
		found = append(found, ent.Name())
	}
	return found, nil
}
