package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/xxxsen/retronav/internal/config"
	"github.com/xxxsen/retronav/internal/system"
)

func newTestStore(t *testing.T, paths map[string]config.SystemPaths) *Store {
	t.Helper()
	cfg := &config.Config{Systems: paths}
	return NewStore(NewBuilder(system.New(cfg)))
}

func TestStoreStartsEmpty(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, nil)
	snap := store.Current()
	if snap == nil {
		t.Fatalf("Current must never return nil")
	}
	assert.Equal(t, 0, snap.Len())
}

func TestStoreRebuildNow(t *testing.T) {
	t.Parallel()

	romDir := t.TempDir()
	writeFile(t, filepath.Join(romDir, "tetris.zip"), "x")

	store := newTestStore(t, map[string]config.SystemPaths{
		"nes": {RomDir: romDir},
	})

	snap, diags := store.RebuildNow(context.Background())
	assert.Equal(t, 0, len(diags))
	assert.Equal(t, 1, snap.Len())
	assert.Same(t, snap, store.Current())
}

func TestStoreRebuildBackground(t *testing.T) {
	t.Parallel()

	romDir := t.TempDir()
	writeFile(t, filepath.Join(romDir, "tetris.zip"), "x")

	store := newTestStore(t, map[string]config.SystemPaths{
		"nes": {RomDir: romDir},
	})

	select {
	case res := <-store.Rebuild(context.Background()):
		assert.False(t, res.Superseded)
		assert.Equal(t, 1, res.Snapshot.Len())
		assert.Same(t, res.Snapshot, store.Current())
	case <-time.After(5 * time.Second):
		t.Fatalf("rebuild did not complete")
	}
}

func TestStoreStaleRebuildDiscarded(t *testing.T) {
	t.Parallel()

	romDir := t.TempDir()
	writeFile(t, filepath.Join(romDir, "tetris.zip"), "x")

	store := newTestStore(t, map[string]config.SystemPaths{
		"nes": {RomDir: romDir},
	})
	installed, _ := store.RebuildNow(context.Background())

	// A newer rebuild request arrives while an older build is still
	// running: the older generation must not install its result.
	staleGen := store.gen.Load()
	store.gen.Add(1)

	stale := NewSnapshot(nil)
	assert.False(t, store.install(staleGen, stale))
	assert.Same(t, installed, store.Current())

	// The newest generation still installs.
	assert.True(t, store.install(store.gen.Load(), stale))
	assert.Same(t, stale, store.Current())
}

func TestStoreRefreshKeepsOtherSystems(t *testing.T) {
	t.Parallel()

	nesDir := t.TempDir()
	writeFile(t, filepath.Join(nesDir, "tetris.zip"), "x")
	mdDir := t.TempDir()
	writeFile(t, filepath.Join(mdDir, "sonic.zip"), "x")

	store := newTestStore(t, map[string]config.SystemPaths{
		"nes":       {RomDir: nesDir},
		"megadrive": {RomDir: mdDir},
	})
	store.RebuildNow(context.Background())

	// The nes list changes on disk; only that system is rescanned.
	writeFile(t, filepath.Join(nesDir, "zelda.zip"), "x")
	if err := os.Remove(filepath.Join(nesDir, "tetris.zip")); err != nil {
		t.Fatalf("remove: %v", err)
	}

	diags, err := store.Refresh(context.Background(), "nes")
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	assert.Equal(t, 0, len(diags))

	snap := store.Current()
	assert.Equal(t, 1, len(snap.System("nes")))
	assert.Equal(t, "zelda.zip", snap.System("nes")[0].Filename)
	assert.Equal(t, 1, len(snap.System("megadrive")))
}

func TestStoreRefreshUnknownSystem(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, nil)
	if _, err := store.Refresh(context.Background(), "dreamcast"); err == nil {
		t.Fatalf("expected error for unknown system")
	}
}
