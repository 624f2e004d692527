package artwork

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xxxsen/retronav/internal/model"
	"github.com/xxxsen/retronav/internal/system"
)

func writeImage(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestResolvePrefixed(t *testing.T) {
	t.Parallel()

	titleDir := t.TempDir()
	previewDir := t.TempDir()
	want := writeImage(t, titleDir, "nes_mariobros.png")

	desc := &system.Descriptor{
		Key:             "nes",
		ImagePrefix:     "nes_",
		TitleImageDir:   titleDir,
		PreviewImageDir: previewDir,
	}
	art := Resolve(desc, model.RomEntry{Filename: "mariobros.zip"})
	assert.Equal(t, want, art.TitleImage)
	assert.Equal(t, "", art.PreviewImage)
}

func TestResolveNoPrefix(t *testing.T) {
	t.Parallel()

	titleDir := t.TempDir()
	want := writeImage(t, titleDir, "mslug.png")

	desc := &system.Descriptor{Key: "arcade", TitleImageDir: titleDir}
	art := Resolve(desc, model.RomEntry{Filename: "mslug.zip"})
	assert.Equal(t, want, art.TitleImage)
}

func TestResolveCaseInsensitive(t *testing.T) {
	t.Parallel()

	titleDir := t.TempDir()
	want := writeImage(t, titleDir, "NES_MarioBros.PNG")

	desc := &system.Descriptor{Key: "nes", ImagePrefix: "nes_", TitleImageDir: titleDir}
	art := Resolve(desc, model.RomEntry{Filename: "MarioBros.zip"})
	assert.Equal(t, want, art.TitleImage)
}

func TestResolveMissing(t *testing.T) {
	t.Parallel()

	desc := &system.Descriptor{
		Key:             "nes",
		ImagePrefix:     "nes_",
		TitleImageDir:   t.TempDir(),
		PreviewImageDir: "",
	}
	art := Resolve(desc, model.RomEntry{Filename: "mariobros.zip"})
	assert.Equal(t, "", art.TitleImage)
	assert.Equal(t, "", art.PreviewImage)
}

func TestResolveNestedCueStem(t *testing.T) {
	t.Parallel()

	titleDir := t.TempDir()
	want := writeImage(t, titleDir, "metal slug.png")

	desc := &system.Descriptor{Key: "neocd", TitleImageDir: titleDir}
	art := Resolve(desc, model.RomEntry{Filename: "Metal Slug/Metal Slug.cue"})
	assert.Equal(t, want, art.TitleImage)
}
