// Package artwork resolves title and preview images for catalog entries by
// filename convention: <image_dir>/<prefix><rom_stem>.png.
package artwork

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/xxxsen/retronav/internal/model"
	"github.com/xxxsen/retronav/internal/system"
)

// Artwork carries the resolved image paths for one entry. An empty path
// means the image does not exist on disk; the caller renders its
// "image not available" state, never an error.
type Artwork struct {
	TitleImage   string `json:"title_image,omitempty"`
	PreviewImage string `json:"preview_image,omitempty"`
}

// Resolve returns the artwork paths for the entry that exist on disk at
// call time.
func Resolve(desc *system.Descriptor, entry model.RomEntry) Artwork {
	name := desc.ImagePrefix + strings.ToLower(entry.Stem()) + ".png"
	return Artwork{
		TitleImage:   findFileFold(desc.TitleImageDir, name),
		PreviewImage: findFileFold(desc.PreviewImageDir, name),
	}
}

// findFileFold probes dir for a file named name, matching case
// insensitively; artwork packs are inconsistent about casing. Returns the
// full path of the match or empty.
func findFileFold(dir, name string) string {
	if dir == "" {
		return ""
	}
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, ent := range dirents {
		if ent.IsDir() {
			continue
		}
		if strings.EqualFold(ent.Name(), name) {
			return filepath.Join(dir, ent.Name())
		}
	}
	return ""
}
