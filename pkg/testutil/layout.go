package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/brandsync/pkg/filesystem"
	"github.com/arthur-debert/brandsync/pkg/types"
	"github.com/stretchr/testify/require"
)

// NewTestFS creates a new in-memory filesystem for testing.
func NewTestFS() types.FS {
	return filesystem.NewMemory()
}

// LayoutBuilder creates roots and files below a base directory
type LayoutBuilder struct {
	t    testing.TB
	fs   types.FS
	base string
}

// NewLayout creates the base directory and returns a builder for it
func NewLayout(t testing.TB, fs types.FS, base string) *LayoutBuilder {
	t.Helper()
	require.NoError(t, fs.MkdirAll(base, 0755))
	return &LayoutBuilder{t: t, fs: fs, base: base}
}

// Base returns the base directory
func (b *LayoutBuilder) Base() string {
	return b.base
}

// Path returns the absolute path of rel inside root
func (b *LayoutBuilder) Path(root, rel string) string {
	if rel == "" {
		return filepath.Join(b.base, root)
	}
	return filepath.Join(b.base, root, filepath.FromSlash(rel))
}

// Root creates an empty root directory
func (b *LayoutBuilder) Root(names ...string) *LayoutBuilder {
	b.t.Helper()
	for _, name := range names {
		require.NoError(b.t, b.fs.MkdirAll(b.Path(name, ""), 0755))
	}
	return b
}

// Dir creates a directory inside root
func (b *LayoutBuilder) Dir(root, rel string) *LayoutBuilder {
	b.t.Helper()
	require.NoError(b.t, b.fs.MkdirAll(b.Path(root, rel), 0755))
	return b
}

// File writes a file inside root, creating parent directories
func (b *LayoutBuilder) File(root, rel, content string) *LayoutBuilder {
	b.t.Helper()
	path := b.Path(root, rel)
	require.NoError(b.t, b.fs.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(b.t, b.fs.WriteFile(path, []byte(content), 0644))
	return b
}

// PlainFile writes a file directly below the base directory
func (b *LayoutBuilder) PlainFile(name, content string) *LayoutBuilder {
	b.t.Helper()
	require.NoError(b.t, b.fs.WriteFile(filepath.Join(b.base, name), []byte(content), 0644))
	return b
}

// ReadFile returns the content of rel inside root
func (b *LayoutBuilder) ReadFile(root, rel string) string {
	b.t.Helper()
	data, err := b.fs.ReadFile(b.Path(root, rel))
	require.NoError(b.t, err)
	return string(data)
}

// Exists reports whether rel exists inside root
func (b *LayoutBuilder) Exists(root, rel string) bool {
	_, err := b.fs.Stat(b.Path(root, rel))
	return err == nil
}

// ScenarioLayout builds the three-root app-react scenario: Button.tsx exists
// in the core and the red theme but not in the blue theme.
func ScenarioLayout(t testing.TB, fs types.FS) *LayoutBuilder {
	t.Helper()
	return NewLayout(t, fs, "/work").
		Root("app-react", "app-react-red-theme", "app-react-blue-theme").
		File("app-react", "src/Button.tsx", "export const Button = () => null\n").
		File("app-react-red-theme", "src/Button.tsx", "export const Button = () => 'red'\n")
}
