package styles

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asciiRenderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(&bytes.Buffer{})
	r.SetColorProfile(termenv.Ascii)
	return r
}

func TestEmbeddedStyles(t *testing.T) {
	for _, name := range []string{"Current", "Present", "Missing", "Header", "Error", "StepCopy"} {
		assert.Contains(t, Names(), name)
	}
}

func TestRenderWithoutColor(t *testing.T) {
	SetRenderer(asciiRenderer())
	t.Cleanup(func() { SetRenderer(lipgloss.DefaultRenderer()) })

	assert.Equal(t, "red", Render("Current", "red"))
	assert.Equal(t, "blue", Render("Missing", "blue"))
	assert.Equal(t, "x", Render("NoSuchStyle", "x"))
}

func TestRenderWithColor(t *testing.T) {
	r := lipgloss.NewRenderer(&bytes.Buffer{})
	r.SetColorProfile(termenv.TrueColor)
	SetRenderer(r)
	t.Cleanup(func() { SetRenderer(lipgloss.DefaultRenderer()) })

	out := Render("Current", "red")
	assert.NotEqual(t, "red", out)
	assert.Contains(t, out, "red")
}

func TestLoadStylesFile(t *testing.T) {
	t.Cleanup(func() { require.NoError(t, LoadStyles(defaultStyles)) })

	path := filepath.Join(t.TempDir(), "styles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("styles:\n  Only:\n    bold: true\n"), 0644))

	require.NoError(t, LoadStylesFile(path))
	assert.Equal(t, []string{"Only"}, Names())

	assert.Error(t, LoadStylesFile(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, LoadStyles([]byte("styles: [")))
}
