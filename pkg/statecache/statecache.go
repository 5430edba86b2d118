// Package statecache memoizes, per source file, whether its relative path
// exists in every root.
//
// Entries are keyed by the absolute source path and live until they are
// invalidated or evicted. The cache never watches the filesystem itself; the
// watcher subscription and the copy engine call Invalidate and InvalidateAll.
package statecache

import (
	"path/filepath"

	"github.com/arthur-debert/brandsync/pkg/errors"
	"github.com/arthur-debert/brandsync/pkg/logging"
	"github.com/arthur-debert/brandsync/pkg/types"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
)

// DefaultSize is used when a non-positive size is requested
const DefaultSize = 4096

// RootsFunc returns the current roots in canonical order
type RootsFunc func() []types.Root

// Cache maps a source path to its per-root states
type Cache struct {
	fs      types.FS
	roots   RootsFunc
	entries *lru.Cache[string, []types.RootState]
	logger  zerolog.Logger
}

// New creates a cache holding at most size entries
func New(fsys types.FS, roots RootsFunc, size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	entries, err := lru.New[string, []types.RootState](size)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to create state cache").
			WithDetail("size", size)
	}
	return &Cache{
		fs:      fsys,
		roots:   roots,
		entries: entries,
		logger:  logging.GetLogger("statecache"),
	}, nil
}

// States returns the state of ctx's relative path in every root.
//
// Concurrent misses for the same key may both compute; the last Add wins.
// An empty result (no roots) is returned but not stored.
func (c *Cache) States(ctx types.ResolvedContext) []types.RootState {
	if cached, ok := c.entries.Get(ctx.SourcePath); ok {
		c.logger.Trace().Str("path", ctx.SourcePath).Msg("State cache hit")
		return clone(cached)
	}

	states := c.Compute(ctx)
	if len(states) == 0 {
		return states
	}
	c.entries.Add(ctx.SourcePath, states)
	return clone(states)
}

// Compute probes every root for ctx's relative path without touching the cache
func (c *Cache) Compute(ctx types.ResolvedContext) []types.RootState {
	roots := c.roots()
	states := make([]types.RootState, 0, len(roots))
	rel := filepath.FromSlash(ctx.RelativePath)

	for _, root := range roots {
		state := types.RootState{
			Root:      root,
			IsCurrent: root.Path == ctx.Root.Path,
		}
		target := filepath.Join(root.Path, rel)
		if _, err := c.fs.Stat(target); err == nil {
			state.TargetPath = target
		}
		states = append(states, state)
	}

	c.logger.Debug().
		Str("path", ctx.SourcePath).
		Int("roots", len(states)).
		Msg("Computed root states")
	return states
}

// InvalidateAll drops every entry
func (c *Cache) InvalidateAll() {
	c.entries.Purge()
	c.logger.Trace().Msg("State cache cleared")
}

// Invalidate drops the entry for one source path
func (c *Cache) Invalidate(path string) {
	if path == "" {
		return
	}
	c.entries.Remove(filepath.Clean(path))
}

// Len returns the number of cached entries
func (c *Cache) Len() int {
	return c.entries.Len()
}

func clone(states []types.RootState) []types.RootState {
	out := make([]types.RootState, len(states))
	copy(out, states)
	return out
}
