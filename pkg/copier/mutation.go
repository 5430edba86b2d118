package copier

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arthur-debert/brandsync/pkg/errors"
	"github.com/arthur-debert/brandsync/pkg/types"
	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
)

// createOnlyFS exposes a types.FS to synthfs. Writes create files
// exclusively, so a synthfs copy never replaces an existing entry.
type createOnlyFS struct {
	fs   types.FS
	root string
}

func newCreateOnlyFS(fsys types.FS) *createOnlyFS {
	return &createOnlyFS{fs: fsys, root: string(filepath.Separator)}
}

// abs maps the root-relative names synthfs hands out back onto the FS
func (c *createOnlyFS) abs(name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(c.root, filepath.FromSlash(name))
}

func (c *createOnlyFS) Open(name string) (fs.File, error) {
	return c.fs.Open(c.abs(name))
}

func (c *createOnlyFS) Stat(name string) (fs.FileInfo, error) {
	return c.fs.Stat(c.abs(name))
}

func (c *createOnlyFS) Lstat(name string) (fs.FileInfo, error) {
	return c.fs.Stat(c.abs(name))
}

func (c *createOnlyFS) ReadFile(name string) ([]byte, error) {
	return c.fs.ReadFile(c.abs(name))
}

func (c *createOnlyFS) ReadDir(name string) ([]fs.DirEntry, error) {
	return c.fs.ReadDir(c.abs(name))
}

func (c *createOnlyFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	out, err := c.fs.OpenFile(c.abs(name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		_ = out.Close()
		_ = c.fs.Remove(c.abs(name))
		return err
	}
	return out.Close()
}

func (c *createOnlyFS) Mkdir(name string, perm fs.FileMode) error {
	return c.fs.Mkdir(c.abs(name), perm)
}

func (c *createOnlyFS) MkdirAll(path string, perm fs.FileMode) error {
	return c.fs.MkdirAll(c.abs(path), perm)
}

func (c *createOnlyFS) Remove(name string) error {
	return c.fs.Remove(c.abs(name))
}

func (c *createOnlyFS) RemoveAll(path string) error {
	return c.fs.RemoveAll(c.abs(path))
}

func (c *createOnlyFS) Symlink(oldname, newname string) error {
	return &fs.PathError{Op: "symlink", Path: newname, Err: stderrors.ErrUnsupported}
}

func (c *createOnlyFS) Readlink(name string) (string, error) {
	return "", &fs.PathError{Op: "readlink", Path: name, Err: stderrors.ErrUnsupported}
}

func (c *createOnlyFS) Rename(oldpath, newpath string) error {
	return &fs.PathError{Op: "rename", Path: oldpath, Err: stderrors.ErrUnsupported}
}

// mutator runs plan steps as synthfs operations
type mutator struct {
	sfs    *synthfs.SynthFS
	target filesystem.FullFileSystem
}

func newMutator(fsys types.FS) *mutator {
	return &mutator{
		sfs:    synthfs.New(),
		target: synthfs.NewPathAwareFileSystem(newCreateOnlyFS(fsys), "/").WithAbsolutePaths(),
	}
}

// apply runs one mkdir or copy step through a synthfs pipeline
func (m *mutator) apply(ctx context.Context, index int, step Step) error {
	var (
		op   synthfs.Operation
		code errors.ErrorCode
		msg  string
	)
	switch step.Kind {
	case StepMkdir:
		op = m.sfs.CreateDirWithID(fmt.Sprintf("mkdir-%d-%s", index, step.Dest), step.Dest, dirMode)
		code, msg = errors.ErrDirCreate, "failed to create directory"
	case StepCopy:
		op = m.sfs.CopyWithID(fmt.Sprintf("copy-%d-%s", index, step.Dest), step.Source, step.Dest)
		code, msg = errors.ErrFileCreate, "failed to copy file"
	default:
		return nil
	}

	options := synthfs.DefaultPipelineOptions()
	// A failed step leaves earlier steps in place
	options.RollbackOnError = false

	if _, err := synthfs.RunWithOptions(ctx, m.target, options, op); err != nil {
		return errors.Wrap(err, code, msg).
			WithDetail("path", step.Dest)
	}
	return nil
}
