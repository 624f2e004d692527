package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xxxsen/retronav/internal/config"
	"github.com/xxxsen/retronav/internal/model"
	"github.com/xxxsen/retronav/internal/system"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func entryByFilename(entries []model.RomEntry, filename string) (model.RomEntry, bool) {
	for _, e := range entries {
		if e.Filename == filename {
			return e, true
		}
	}
	return model.RomEntry{}, false
}

func TestBuildSystemWithDescriptor(t *testing.T) {
	t.Parallel()

	romDir := t.TempDir()
	for _, name := range []string{"mariobros.zip", "zelda.7z", "phantom.zip", "neocdz.zip"} {
		writeFile(t, filepath.Join(romDir, name), "x")
	}
	writeFile(t, filepath.Join(romDir, "readme.txt"), "not a rom")

	datFile := filepath.Join(t.TempDir(), "nes.dat")
	writeFile(t, datFile, `<?xml version="1.0"?>
<datafile>
	<game name="mariobros">
		<description>Mario Bros.</description>
		<year>1983</year>
		<manufacturer>Nintendo</manufacturer>
	</game>
	<game name="zelda" cloneof="zeldau">
		<description>The Legend of Zelda</description>
		<year>1986</year>
	</game>
	<game isbios="yes" name="nesbios">
		<description>NES BIOS</description>
	</game>
</datafile>`)

	cfg := &config.Config{Systems: map[string]config.SystemPaths{
		"nes": {RomDir: romDir, DatFile: datFile},
	}}
	reg := system.New(cfg)
	desc, _ := reg.Lookup("nes")

	entries, diags := NewBuilder(reg).BuildSystem(context.Background(), desc)
	assert.Equal(t, 0, len(diags))
	assert.Equal(t, 2, len(entries))

	mario, ok := entryByFilename(entries, "mariobros.zip")
	if !ok {
		t.Fatalf("mariobros.zip missing from entries")
	}
	assert.Equal(t, "nes", mario.System)
	assert.Equal(t, "Mario Bros.", mario.Title)
	assert.Equal(t, "1983", mario.Year)
	assert.Equal(t, "Nintendo", mario.Manufacturer)
	assert.False(t, mario.Clone)

	zelda, _ := entryByFilename(entries, "zelda.7z")
	assert.True(t, zelda.Clone)

	// Deliberate: a non-empty descriptor is authoritative for which sets
	// are real games, so unknown files are dropped rather than listed with
	// stem titles (see the descriptor-driven hiding note in DESIGN.md).
	if _, ok := entryByFilename(entries, "phantom.zip"); ok {
		t.Fatalf("phantom.zip must be dropped when the descriptor does not list it")
	}
	if _, ok := entryByFilename(entries, "neocdz.zip"); ok {
		t.Fatalf("hidden set neocdz must never surface")
	}
	if _, ok := entryByFilename(entries, "readme.txt"); ok {
		t.Fatalf("non-rom extension must be ignored")
	}
}

func TestBuildSystemTitlesFallback(t *testing.T) {
	t.Parallel()

	romDir := t.TempDir()
	writeFile(t, filepath.Join(romDir, "sonic.zip"), "x")
	writeFile(t, filepath.Join(romDir, "columns.zip"), "x")

	titlesFile := filepath.Join(t.TempDir(), "rom_titles_megadrive.txt")
	writeFile(t, titlesFile, "sonic Sonic The Hedgehog\n")

	cfg := &config.Config{Systems: map[string]config.SystemPaths{
		"megadrive": {RomDir: romDir, TitlesFile: titlesFile},
	}}
	reg := system.New(cfg)
	desc, _ := reg.Lookup("megadrive")

	entries, diags := NewBuilder(reg).BuildSystem(context.Background(), desc)
	assert.Equal(t, 0, len(diags))
	assert.Equal(t, 2, len(entries))

	sonic, _ := entryByFilename(entries, "sonic.zip")
	assert.Equal(t, "Sonic The Hedgehog", sonic.Title)

	// Not in the title list: the stem stands in.
	columns, _ := entryByFilename(entries, "columns.zip")
	assert.Equal(t, "columns", columns.Title)
}

func TestBuildSystemRecursiveCue(t *testing.T) {
	t.Parallel()

	romDir := t.TempDir()
	writeFile(t, filepath.Join(romDir, "Metal Slug", "Metal Slug.cue"), "x")
	writeFile(t, filepath.Join(romDir, "Metal Slug", "Metal Slug.bin"), "x")
	writeFile(t, filepath.Join(romDir, "toplevel.cue"), "x")
	writeFile(t, filepath.Join(romDir, "stray.zip"), "x")

	cfg := &config.Config{Systems: map[string]config.SystemPaths{
		"neocd": {RomDir: romDir},
	}}
	reg := system.New(cfg)
	desc, _ := reg.Lookup("neocd")

	entries, diags := NewBuilder(reg).BuildSystem(context.Background(), desc)
	assert.Equal(t, 0, len(diags))
	assert.Equal(t, 2, len(entries))

	nested, ok := entryByFilename(entries, "Metal Slug/Metal Slug.cue")
	if !ok {
		t.Fatalf("nested cue sheet missing from entries")
	}
	assert.Equal(t, "Metal Slug", nested.Title)

	if _, ok := entryByFilename(entries, "stray.zip"); ok {
		t.Fatalf("zip files are not launchable on a cue system")
	}
}

func TestBuildSystemNeoCDIgnoresDescriptor(t *testing.T) {
	t.Parallel()

	romDir := t.TempDir()
	writeFile(t, filepath.Join(romDir, "Metal Slug", "Metal Slug.cue"), "x")

	// The descriptor knows the set under a different title; on a Neo-Geo CD
	// system it must never be consulted.
	datFile := filepath.Join(t.TempDir(), "neocd.dat")
	writeFile(t, datFile, `<datafile>
	<game name="metal slug">
		<description>Metal Slug - Super Vehicle-001</description>
		<year>1996</year>
		<manufacturer>Nazca</manufacturer>
	</game>
</datafile>`)

	cfg := &config.Config{Systems: map[string]config.SystemPaths{
		"neocd": {RomDir: romDir, DatFile: datFile},
	}}
	reg := system.New(cfg)
	desc, _ := reg.Lookup("neocd")

	entries, diags := NewBuilder(reg).BuildSystem(context.Background(), desc)
	assert.Equal(t, 0, len(diags))
	assert.Equal(t, 1, len(entries))
	assert.Equal(t, "Metal Slug", entries[0].Title)
	assert.Equal(t, "", entries[0].Year)
	assert.Equal(t, "", entries[0].Manufacturer)
}

func TestBuildSystemMalformedDescriptor(t *testing.T) {
	t.Parallel()

	romDir := t.TempDir()
	writeFile(t, filepath.Join(romDir, "sonic.zip"), "x")

	datFile := filepath.Join(t.TempDir(), "broken.dat")
	writeFile(t, datFile, "<datafile><game")

	cfg := &config.Config{Systems: map[string]config.SystemPaths{
		"megadrive": {RomDir: romDir, DatFile: datFile},
	}}
	reg := system.New(cfg)
	desc, _ := reg.Lookup("megadrive")

	entries, diags := NewBuilder(reg).BuildSystem(context.Background(), desc)
	assert.Equal(t, 1, len(diags))
	assert.Equal(t, "megadrive", diags[0].System)
	assert.Equal(t, datFile, diags[0].Source)

	// The system still lists with filename-derived titles.
	assert.Equal(t, 1, len(entries))
	assert.Equal(t, "sonic", entries[0].Title)
}

func TestBuildSystemMissingRomDir(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Systems: map[string]config.SystemPaths{
		"nes": {RomDir: filepath.Join(t.TempDir(), "nope")},
	}}
	reg := system.New(cfg)
	desc, _ := reg.Lookup("nes")

	entries, diags := NewBuilder(reg).BuildSystem(context.Background(), desc)
	assert.Equal(t, 0, len(entries))
	assert.Equal(t, 0, len(diags))
}

func TestBuildCoversAllSystems(t *testing.T) {
	t.Parallel()

	romDir := t.TempDir()
	writeFile(t, filepath.Join(romDir, "tetris.zip"), "x")

	cfg := &config.Config{Systems: map[string]config.SystemPaths{
		"nes": {RomDir: romDir},
	}}
	reg := system.New(cfg)

	snap, diags := NewBuilder(reg).Build(context.Background())
	assert.Equal(t, 0, len(diags))
	assert.Equal(t, 1, snap.Len())
	assert.Equal(t, 1, len(snap.System("nes")))
	assert.Equal(t, 0, len(snap.System("snes")))
	assert.False(t, snap.BuiltAt().IsZero())
}
