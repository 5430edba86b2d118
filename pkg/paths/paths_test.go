package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExplicitBaseDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvConfigDir, "/cfg")
	t.Setenv(EnvStateDir, "/state")

	p, err := New(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, p.BaseDir())
	assert.False(t, p.UsedFallback())
	assert.Equal(t, "/cfg", p.ConfigDir())
	assert.Equal(t, "/state", p.StateDir())
}

func TestNewFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvRoot, dir)

	p, err := New("")
	require.NoError(t, err)

	assert.Equal(t, dir, p.BaseDir())
	assert.False(t, p.UsedFallback())
}

func TestNewRelativeBaseDirIsAbsolute(t *testing.T) {
	p, err := New("relative/base")
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(p.BaseDir()))
	assert.Equal(t, "base", filepath.Base(p.BaseDir()))
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", home},
		{"~/work/base", filepath.Join(home, "work", "base")},
		{"~other/base", "~other/base"},
		{"/abs/path", "/abs/path"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, expandHome(tt.in))
		})
	}
}
