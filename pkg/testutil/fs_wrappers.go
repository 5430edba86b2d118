package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/arthur-debert/brandsync/pkg/types"
	"github.com/spf13/afero"
)

// CountingFS counts Stat calls made through it
type CountingFS struct {
	types.FS
	stats atomic.Int64
}

// NewCountingFS wraps fs
func NewCountingFS(fs types.FS) *CountingFS {
	return &CountingFS{FS: fs}
}

// Stat counts and delegates
func (c *CountingFS) Stat(name string) (fs.FileInfo, error) {
	c.stats.Add(1)
	return c.FS.Stat(name)
}

// Stats returns the number of Stat calls so far
func (c *CountingFS) Stats() int64 {
	return c.stats.Load()
}

// Reset zeroes the counter
func (c *CountingFS) Reset() {
	c.stats.Store(0)
}

// LaggyFS hides paths from Stat until Refresh is called on one of their
// ancestors. Paths marked with HideForever stay hidden after a refresh.
type LaggyFS struct {
	types.FS

	mu        sync.Mutex
	hidden    map[string]bool
	forever   map[string]bool
	refreshes []string
}

// NewLaggyFS wraps fs
func NewLaggyFS(fs types.FS) *LaggyFS {
	return &LaggyFS{
		FS:      fs,
		hidden:  make(map[string]bool),
		forever: make(map[string]bool),
	}
}

// Hide makes path invisible to Stat until a refresh of an ancestor
func (l *LaggyFS) Hide(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hidden[filepath.Clean(path)] = true
}

// HideForever makes path invisible to Stat regardless of refreshes
func (l *LaggyFS) HideForever(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.forever[filepath.Clean(path)] = true
}

// Stat reports hidden paths as missing
func (l *LaggyFS) Stat(name string) (fs.FileInfo, error) {
	clean := filepath.Clean(name)
	l.mu.Lock()
	hidden := l.hidden[clean] || l.forever[clean]
	l.mu.Unlock()
	if hidden {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
	}
	return l.FS.Stat(name)
}

// Refresh reveals every hidden path below path
func (l *LaggyFS) Refresh(path string) error {
	root := filepath.Clean(path)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refreshes = append(l.refreshes, root)
	for hidden := range l.hidden {
		if hidden == root || isBelow(root, hidden) {
			delete(l.hidden, hidden)
		}
	}
	return nil
}

// Refreshes returns the paths Refresh was called with
func (l *LaggyFS) Refreshes() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.refreshes))
	copy(out, l.refreshes)
	return out
}

var _ types.Refresher = (*LaggyFS)(nil)

// Op names an FS operation for fault injection
type Op string

const (
	OpMkdir    Op = "mkdir"
	OpOpenFile Op = "openfile"
	OpReadDir  Op = "readdir"
	OpStat     Op = "stat"
)

// FaultyFS returns injected errors for chosen operations and paths
type FaultyFS struct {
	types.FS

	mu     sync.Mutex
	faults map[Op]map[string]error
}

// NewFaultyFS wraps fs
func NewFaultyFS(fs types.FS) *FaultyFS {
	return &FaultyFS{FS: fs, faults: make(map[Op]map[string]error)}
}

// FailOn makes op on path return err
func (f *FaultyFS) FailOn(op Op, path string, err error) *FaultyFS {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.faults[op] == nil {
		f.faults[op] = make(map[string]error)
	}
	f.faults[op][filepath.Clean(path)] = err
	return f
}

func (f *FaultyFS) fault(op Op, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.faults[op][filepath.Clean(path)]
}

func (f *FaultyFS) Stat(name string) (fs.FileInfo, error) {
	if err := f.fault(OpStat, name); err != nil {
		return nil, err
	}
	return f.FS.Stat(name)
}

func (f *FaultyFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if err := f.fault(OpReadDir, name); err != nil {
		return nil, err
	}
	return f.FS.ReadDir(name)
}

func (f *FaultyFS) Mkdir(name string, perm fs.FileMode) error {
	if err := f.fault(OpMkdir, name); err != nil {
		return err
	}
	return f.FS.Mkdir(name, perm)
}

// MkdirAll fails when any directory it would create has a mkdir fault
func (f *FaultyFS) MkdirAll(path string, perm fs.FileMode) error {
	for dir := filepath.Clean(path); ; dir = filepath.Dir(dir) {
		if err := f.fault(OpMkdir, dir); err != nil {
			if _, statErr := f.FS.Stat(dir); statErr != nil {
				return err
			}
		}
		if parent := filepath.Dir(dir); parent == dir {
			break
		}
	}
	return f.FS.MkdirAll(path, perm)
}

func (f *FaultyFS) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if err := f.fault(OpOpenFile, name); err != nil {
		return nil, err
	}
	return f.FS.OpenFile(name, flag, perm)
}

func isBelow(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !filepath.IsAbs(rel) && (len(rel) < 3 || rel[:3] != ".."+string(filepath.Separator))
}
