package types

import (
	"io/fs"
	"os"

	"github.com/spf13/afero"
)

// FS is the filesystem interface required for brandsync operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	Open(name string) (afero.File, error)
	OpenFile(name string, flag int, perm os.FileMode) (afero.File, error)

	// Directory operations
	ReadDir(name string) ([]fs.DirEntry, error)
	Mkdir(name string, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error
}

// Refresher is implemented by filesystems whose path lookups can lag behind
// writes. Refresh makes everything below path visible to subsequent lookups.
type Refresher interface {
	Refresh(path string) error
}
