package catalog

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/xxxsen/retronav/internal/model"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// RebuildResult is delivered when a background rebuild finishes.
type RebuildResult struct {
	Snapshot    *Snapshot
	Diagnostics []model.Diagnostic
	// Superseded marks a rebuild whose result was discarded because a newer
	// rebuild was requested while it ran.
	Superseded bool
}

// Store owns the current catalog snapshot. The snapshot reference is
// swapped atomically; readers always observe a complete catalog. Rebuilds
// run off the caller's loop and the latest request wins.
type Store struct {
	builder *Builder

	cur atomic.Pointer[Snapshot]
	gen atomic.Uint64

	// mu serialises swaps so a single-system refresh cannot lose a
	// concurrent full rebuild's systems.
	mu sync.Mutex
}

// NewStore creates a store with an empty snapshot installed.
func NewStore(builder *Builder) *Store {
	s := &Store{builder: builder}
	s.cur.Store(&Snapshot{systems: map[string][]model.RomEntry{}})
	return s
}

// Current returns the installed snapshot. Never nil.
func (s *Store) Current() *Snapshot {
	return s.cur.Load()
}

// RebuildNow builds and installs a full snapshot synchronously.
func (s *Store) RebuildNow(ctx context.Context) (*Snapshot, []model.Diagnostic) {
	gen := s.gen.Add(1)
	snap, diags := s.builder.Build(ctx)
	s.install(gen, snap)
	return snap, diags
}

// Rebuild starts a full rebuild in the background and reports the result on
// the returned channel. A rebuild that is overtaken by a newer request is
// marked superseded and its snapshot is not installed.
func (s *Store) Rebuild(ctx context.Context) <-chan RebuildResult {
	gen := s.gen.Add(1)
	done := make(chan RebuildResult, 1)
	go func() {
		snap, diags := s.builder.Build(ctx)
		installed := s.install(gen, snap)
		if !installed {
			logutil.GetLogger(ctx).Debug("catalog rebuild superseded",
				zap.Uint64("generation", gen),
			)
		}
		done <- RebuildResult{Snapshot: snap, Diagnostics: diags, Superseded: !installed}
	}()
	return done
}

// Refresh rebuilds one system's entries and swaps in a snapshot with the
// other systems untouched.
func (s *Store) Refresh(ctx context.Context, systemKey string) ([]model.Diagnostic, error) {
	desc, ok := s.builder.reg.Lookup(systemKey)
	if !ok {
		return nil, fmt.Errorf("unknown system %q", systemKey)
	}
	entries, diags := s.builder.BuildSystem(ctx, desc)

	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.cur.Load().withSystem(systemKey, entries)
	s.cur.Store(next)
	return diags, nil
}

// install swaps the snapshot in unless a newer generation has been
// requested since this build started.
func (s *Store) install(gen uint64, snap *Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen.Load() != gen {
		return false
	}
	s.cur.Store(snap)
	return true
}
