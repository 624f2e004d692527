package system

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xxxsen/retronav/internal/config"
)

func TestRegistryCoversBuiltins(t *testing.T) {
	t.Parallel()

	reg := New(nil)
	keys := reg.Keys()
	assert.Equal(t, 17, len(keys))
	assert.Equal(t, "arcade", keys[0])
	assert.Equal(t, "spectrum", keys[len(keys)-1])
	assert.Equal(t, len(keys), len(reg.Systems()))
}

func TestImagePrefixes(t *testing.T) {
	t.Parallel()

	reg := New(nil)
	want := map[string]string{
		"arcade":    "",
		"coleco":    "cv_",
		"channelf":  "chf_",
		"msx":       "msx_",
		"pce":       "pce_",
		"sgx":       "sgx_",
		"tg16":      "tg_",
		"nes":       "nes_",
		"fds":       "fds_",
		"snes":      "snes_",
		"gamegear":  "gg_",
		"sms":       "sms_",
		"megadrive": "md_",
		"sg1000":    "sg1k_",
		"ngp":       "ngp_",
		"neocd":     "",
		"spectrum":  "spec_",
	}
	for key, prefix := range want {
		desc, ok := reg.Lookup(key)
		if !ok {
			t.Fatalf("system %s missing from registry", key)
		}
		assert.Equal(t, prefix, desc.ImagePrefix, "prefix of %s", key)
	}
}

func TestNeoCDFlags(t *testing.T) {
	t.Parallel()

	reg := New(nil)
	neocd, _ := reg.Lookup("neocd")
	assert.True(t, neocd.RecursiveCue)
	assert.True(t, neocd.SkipDatLookup)

	nes, _ := reg.Lookup("nes")
	assert.False(t, nes.RecursiveCue)
	assert.False(t, nes.SkipDatLookup)
}

func TestConfiguredPathsMergeIn(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Systems: map[string]config.SystemPaths{
		"nes": {
			RomDir:        "/roms/nes",
			DatFile:       "/dats/nes.dat",
			TitlesFile:    "/titles/custom_nes.txt",
			TitleImageDir: "/art/title",
		},
	}}
	reg := New(cfg)

	nes, _ := reg.Lookup("nes")
	assert.Equal(t, "/roms/nes", nes.RomDir)
	assert.Equal(t, "/dats/nes.dat", nes.DatFile)
	assert.Equal(t, "/titles/custom_nes.txt", nes.TitlesFile)
	assert.Equal(t, "/art/title", nes.TitleImageDir)

	// Unconfigured systems keep the built-in titles file name and empty paths.
	snes, _ := reg.Lookup("snes")
	assert.Equal(t, "rom_titles_snes.txt", snes.TitlesFile)
	assert.Equal(t, "", snes.RomDir)
}

func TestResolve(t *testing.T) {
	t.Parallel()

	reg := New(nil)

	byKey, err := reg.Resolve("NES")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	assert.Equal(t, "nes", byKey.Key)

	byName, err := reg.Resolve("sega megadrive")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	assert.Equal(t, "megadrive", byName.Key)

	if _, err := reg.Resolve("dreamcast"); err == nil {
		t.Fatalf("expected error but got nil")
	}
}

func TestNextPrevWrap(t *testing.T) {
	t.Parallel()

	reg := New(nil)
	keys := reg.Keys()

	assert.Equal(t, keys[1], reg.Next(keys[0]))
	assert.Equal(t, keys[0], reg.Next(keys[len(keys)-1]))
	assert.Equal(t, keys[len(keys)-1], reg.Prev(keys[0]))

	// Unknown key lands on the first system.
	assert.Equal(t, keys[0], reg.Next("dreamcast"))
}
