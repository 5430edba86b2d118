package filesystem

import (
	"github.com/arthur-debert/brandsync/pkg/types"
	"github.com/spf13/afero"
)

// osFS implements types.FS and types.Refresher on the OS filesystem
type osFS struct {
	aferoFS
}

// NewOS creates a new OS filesystem implementation
func NewOS() types.FS {
	return &osFS{aferoFS: aferoFS{fs: afero.NewOsFs()}}
}

// Refresh flushes the directory entry of path so that entries created through
// other handles are visible to the next lookup.
func (o *osFS) Refresh(path string) error {
	dir, err := o.fs.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = dir.Close() }()
	return dir.Sync()
}
