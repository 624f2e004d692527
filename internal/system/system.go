package system

import (
	"fmt"
	"strings"

	"github.com/xxxsen/retronav/internal/config"
)

// Descriptor identifies one supported hardware system and where its roms,
// descriptor file and artwork live. Immutable after registry construction.
type Descriptor struct {
	Key             string
	Name            string
	ImagePrefix     string
	TitlesFile      string
	RomDir          string
	DatFile         string
	TitleImageDir   string
	PreviewImageDir string

	// RecursiveCue marks systems whose roms are .cue sheets discovered by
	// walking the rom dir recursively (Neo-Geo CD family).
	RecursiveCue bool
	// SkipDatLookup disables descriptor metadata for the system; titles come
	// from the filename.
	SkipDatLookup bool
}

type builtin struct {
	key         string
	name        string
	imagePrefix string
	titlesFile  string
	neoCD       bool
}

// The supported system table. Artwork prefixes without an entry are empty
// strings, which still resolves artwork, just without a prefix.
var builtins = []builtin{
	{key: "arcade", name: "Arcade", titlesFile: "rom_titles_arcade.txt"},
	{key: "coleco", name: "CBS ColecoVision", imagePrefix: "cv_", titlesFile: "rom_titles_coleco.txt"},
	{key: "channelf", name: "Fairchild ChannelF", imagePrefix: "chf_", titlesFile: "rom_titles_channelf.txt"},
	{key: "msx", name: "MSX 1", imagePrefix: "msx_", titlesFile: "rom_titles_msx.txt"},
	{key: "pce", name: "Nec PC-Engine", imagePrefix: "pce_", titlesFile: "rom_titles_pce.txt"},
	{key: "sgx", name: "Nec SuperGrafX", imagePrefix: "sgx_", titlesFile: "rom_titles_sgx.txt"},
	{key: "tg16", name: "Nec TurboGrafx-16", imagePrefix: "tg_", titlesFile: "rom_titles_tg16.txt"},
	{key: "nes", name: "Nintendo Entertainment System", imagePrefix: "nes_", titlesFile: "rom_titles_nes.txt"},
	{key: "fds", name: "Nintendo Family Disk System", imagePrefix: "fds_", titlesFile: "rom_titles_fds.txt"},
	{key: "snes", name: "Super Nintendo Entertainment System", imagePrefix: "snes_", titlesFile: "rom_titles_snes.txt"},
	{key: "gamegear", name: "Sega GameGear", imagePrefix: "gg_", titlesFile: "rom_titles_gamegear.txt"},
	{key: "sms", name: "Sega Master System", imagePrefix: "sms_", titlesFile: "rom_titles_sms.txt"},
	{key: "megadrive", name: "Sega Megadrive", imagePrefix: "md_", titlesFile: "rom_titles_megadrive.txt"},
	{key: "sg1000", name: "Sega SG-1000", imagePrefix: "sg1k_", titlesFile: "rom_titles_sg1000.txt"},
	{key: "ngp", name: "SNK Neo-Geo Pocket", imagePrefix: "ngp_", titlesFile: "rom_titles_ngp.txt"},
	{key: "neocd", name: "SNK Neo-Geo CD", titlesFile: "rom_titles_neocd.txt", neoCD: true},
	{key: "spectrum", name: "ZX Spectrum", imagePrefix: "spec_", titlesFile: "rom_titles_spectrum.txt"},
}

// Registry holds the full ordered set of supported systems with their
// configured paths merged in.
type Registry struct {
	order []string
	byKey map[string]*Descriptor
}

// New builds the registry from the built-in system table and the per-system
// paths found in cfg. A nil cfg yields a registry with empty paths.
func New(cfg *config.Config) *Registry {
	reg := &Registry{byKey: make(map[string]*Descriptor, len(builtins))}
	for _, b := range builtins {
		desc := &Descriptor{
			Key:           b.key,
			Name:          b.name,
			ImagePrefix:   b.imagePrefix,
			TitlesFile:    b.titlesFile,
			RecursiveCue:  b.neoCD,
			SkipDatLookup: b.neoCD,
		}
		if cfg != nil {
			paths := cfg.SystemPathsFor(b.key)
			desc.RomDir = paths.RomDir
			desc.DatFile = paths.DatFile
			desc.TitleImageDir = paths.TitleImageDir
			desc.PreviewImageDir = paths.PreviewImageDir
			if paths.TitlesFile != "" {
				desc.TitlesFile = paths.TitlesFile
			}
		}
		reg.order = append(reg.order, b.key)
		reg.byKey[b.key] = desc
	}
	return reg
}

// Keys returns the system keys in presentation order.
func (r *Registry) Keys() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Systems returns all descriptors in presentation order.
func (r *Registry) Systems() []*Descriptor {
	out := make([]*Descriptor, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.byKey[key])
	}
	return out
}

// Lookup returns the descriptor for a system key.
func (r *Registry) Lookup(key string) (*Descriptor, bool) {
	desc, ok := r.byKey[key]
	return desc, ok
}

// Resolve accepts either a system key or a display name, case-insensitively.
func (r *Registry) Resolve(keyOrName string) (*Descriptor, error) {
	if desc, ok := r.byKey[strings.ToLower(keyOrName)]; ok {
		return desc, nil
	}
	for _, desc := range r.byKey {
		if strings.EqualFold(desc.Name, keyOrName) {
			return desc, nil
		}
	}
	return nil, fmt.Errorf("unknown system %q", keyOrName)
}

// Next returns the key following the given one, wrapping at the end.
func (r *Registry) Next(key string) string {
	return r.step(key, 1)
}

// Prev returns the key preceding the given one, wrapping at the start.
func (r *Registry) Prev(key string) string {
	return r.step(key, -1)
}

func (r *Registry) step(key string, delta int) string {
	if len(r.order) == 0 {
		return key
	}
	for i, k := range r.order {
		if k == key {
			next := (i + delta + len(r.order)) % len(r.order)
			return r.order[next]
		}
	}
	return r.order[0]
}
