package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/brandsync/pkg/errors"
	"github.com/arthur-debert/brandsync/pkg/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupBase creates the three-root scenario on disk and isolates the user
// config and state directories
func setupBase(t *testing.T) string {
	t.Helper()
	t.Setenv("BRANDSYNC_CONFIG_DIR", t.TempDir())
	t.Setenv("BRANDSYNC_STATE_DIR", t.TempDir())

	base := t.TempDir()
	writeFile(t, filepath.Join(base, "app-react", "src", "Button.tsx"), "core")
	writeFile(t, filepath.Join(base, "app-react-red-theme", "src", "Button.tsx"), "red")
	require.NoError(t, os.MkdirAll(filepath.Join(base, "app-react-blue-theme"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(base, "docs"), 0755))
	return base
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootsCommand(t *testing.T) {
	base := setupBase(t)

	out, err := run(t, "--root", base, "--no-color", "roots")
	require.NoError(t, err)

	expected := "Core  app-react (core)\n" +
		"blue  app-react-blue-theme (brand)\n" +
		"red   app-react-red-theme (brand)\n"
	assert.Equal(t, expected, out)
}

func TestStatusCommandJSON(t *testing.T) {
	base := setupBase(t)
	button := filepath.Join(base, "app-react", "src", "Button.tsx")
	outside := filepath.Join(base, "docs", "readme.md")

	out, err := run(t, "--root", base, "status", "--format", "json", button, outside)
	require.NoError(t, err)

	var files []output.FileStatus
	require.NoError(t, json.Unmarshal([]byte(out), &files))
	require.Len(t, files, 2)

	assert.Equal(t, "app-react", files[0].Root)
	assert.Equal(t, "src/Button.tsx", files[0].RelativePath)
	require.Len(t, files[0].Indicators, 3)
	assert.True(t, files[0].Indicators[0].IsCurrent)
	assert.False(t, files[0].Indicators[1].Exists)
	assert.True(t, files[0].Indicators[2].Exists)

	assert.Equal(t, outside, files[1].Path)
	assert.NotEmpty(t, files[1].Error)
}

func TestStatusCommandInvalidFormat(t *testing.T) {
	base := setupBase(t)
	_, err := run(t, "--root", base, "status", "--format", "xml", base)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestCopyCommand(t *testing.T) {
	base := setupBase(t)
	button := filepath.Join(base, "app-react", "src", "Button.tsx")
	dest := filepath.Join(base, "app-react-blue-theme", "src", "Button.tsx")

	out, err := run(t, "--root", base, "--no-color", "copy", button, "blue")
	require.NoError(t, err)
	assert.Equal(t, "Copied to "+dest+"\n", out)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "core", string(data))
}

func TestCopyCommandRefusesExistingFile(t *testing.T) {
	base := setupBase(t)
	button := filepath.Join(base, "app-react", "src", "Button.tsx")

	_, err := run(t, "--root", base, "copy", button, "app-react-red-theme")
	assert.True(t, errors.IsErrorCode(err, errors.ErrTargetExists))

	data, err := os.ReadFile(filepath.Join(base, "app-react-red-theme", "src", "Button.tsx"))
	require.NoError(t, err)
	assert.Equal(t, "red", string(data))
}

func TestCopyCommandUnknownTarget(t *testing.T) {
	base := setupBase(t)
	button := filepath.Join(base, "app-react", "src", "Button.tsx")

	_, err := run(t, "--root", base, "copy", button, "green")
	assert.True(t, errors.IsErrorCode(err, errors.ErrRootNotFound))
}

func TestCopyCommandDryRun(t *testing.T) {
	base := setupBase(t)
	writeFile(t, filepath.Join(base, "app-react", "src", "icons", "a.svg"), "a")
	writeFile(t, filepath.Join(base, "app-react", "src", "icons", "b.svg"), "b")
	writeFile(t, filepath.Join(base, "app-react-red-theme", "src", "icons", "a.svg"), "red-a")

	out, err := run(t, "--root", base, "--no-color", "copy", "--dry-run", filepath.Join(base, "app-react", "src", "icons"), "red")
	require.NoError(t, err)

	expected := "Copy directory src/icons to red\n" +
		"  skip  src/icons/a.svg\n" +
		"  copy  src/icons/b.svg\n"
	assert.Equal(t, expected, out)

	_, err = os.Stat(filepath.Join(base, "app-react-red-theme", "src", "icons", "b.svg"))
	assert.True(t, os.IsNotExist(err))
}

func TestActionsCommand(t *testing.T) {
	base := setupBase(t)
	button := filepath.Join(base, "app-react", "src", "Button.tsx")

	out, err := run(t, "--root", base, "actions", "--format", "json", "--file", button)
	require.NoError(t, err)

	var actions []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &actions))
	require.Len(t, actions, 3)
	assert.Equal(t, "CopyToCoreAction", actions[0]["id"])
	assert.Equal(t, false, actions[0]["enabled"])
	assert.Equal(t, true, actions[1]["enabled"])
	assert.Equal(t, false, actions[2]["enabled"])
}

func TestConfigCommand(t *testing.T) {
	base := setupBase(t)
	writeFile(t, filepath.Join(base, ".brandsync.toml"), "[cache]\nsize = 12\n")

	out, err := run(t, "--root", base, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "size = 12")
	assert.Regexp(t, `prefix = ['"]app-react['"]`, out)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "brandsync dev")
}

func TestCompletionCommand(t *testing.T) {
	out, err := run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "brandsync")

	_, err = run(t, "completion", "tcsh")
	assert.Error(t, err)
}

func TestNoCommand(t *testing.T) {
	_, err := run(t)
	assert.Error(t, err)
}
