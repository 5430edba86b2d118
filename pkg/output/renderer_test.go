package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/arthur-debert/brandsync/pkg/brand"
	"github.com/arthur-debert/brandsync/pkg/copier"
	"github.com/arthur-debert/brandsync/pkg/errors"
	"github.com/arthur-debert/brandsync/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var scenarioIndicators = []brand.Indicator{
	{DisplayName: "Core", RootName: "app-react", Kind: "core", Exists: true, IsCurrent: true, Path: "/work/app-react/src/Button.tsx"},
	{DisplayName: "blue", RootName: "app-react-blue-theme", Kind: "brand"},
	{DisplayName: "red", RootName: "app-react-red-theme", Kind: "brand", Exists: true, Path: "/work/app-react-red-theme/src/Button.tsx"},
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"text", "JSON", "yaml"} {
		_, err := ParseFormat(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseFormat("xml")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestStatusText(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, FormatText, true)

	require.NoError(t, r.Status([]FileStatus{
		{Path: "app-react/src/Button.tsx", Indicators: scenarioIndicators},
		{Path: "docs/readme.md", Error: "not inside a recognized root"},
	}))

	expected := "app-react/src/Button.tsx\n" +
		"  [Core]  blue  red\n" +
		"\n" +
		"docs/readme.md\n" +
		"  not inside a recognized root\n"
	assert.Equal(t, expected, buf.String())
}

func TestStatusJSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, FormatJSON, true)

	require.NoError(t, r.Status([]FileStatus{{Path: "a", Root: "app-react", RelativePath: "src/Button.tsx", Indicators: scenarioIndicators}}))

	var decoded []FileStatus
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, scenarioIndicators, decoded[0].Indicators)
}

func TestRootsYAML(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, FormatYAML, true)

	require.NoError(t, r.Roots([]types.Root{{Name: "app-react", Kind: types.KindCore, DisplayName: "Core", Path: "/work/app-react"}}))

	var decoded []map[string]string
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "core", decoded[0]["kind"])
	assert.Equal(t, "Core", decoded[0]["display_name"])
}

func TestRootsText(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, FormatText, true)

	require.NoError(t, r.Roots(nil))
	assert.Equal(t, "No roots found\n", buf.String())

	buf.Reset()
	require.NoError(t, r.Roots([]types.Root{
		{Name: "app-react", Kind: types.KindCore, DisplayName: "Core"},
		{Name: "app-react-red-theme", Kind: types.KindBrand, DisplayName: "red"},
	}))
	assert.Equal(t, "Core  app-react (core)\nred   app-react-red-theme (brand)\n", buf.String())
}

func TestPlanText(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, FormatText, true)

	plan := &copier.Plan{
		Source: types.ResolvedContext{RelativePath: "a"},
		Target: types.Root{Name: "app-react-red-theme", DisplayName: "red", Path: "/work/app-react-red-theme"},
		IsDir:  true,
		Steps: []copier.Step{
			{Kind: copier.StepMkdir, Dest: "/work/app-react-red-theme/a"},
			{Kind: copier.StepCopy, Dest: "/work/app-react-red-theme/a/y.txt"},
			{Kind: copier.StepSkip, Dest: "/work/app-react-red-theme/a/x.txt"},
		},
	}
	require.NoError(t, r.Plan(plan))

	expected := "Copy directory a to red\n" +
		"  mkdir a\n" +
		"  copy  a/y.txt\n" +
		"  skip  a/x.txt\n"
	assert.Equal(t, expected, buf.String())
}

func TestCopyResult(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, FormatText, true)

	require.NoError(t, r.CopyResult(copier.Result{Path: "/work/app-react-blue-theme/src/Button.tsx"}))
	assert.Equal(t, "Copied to /work/app-react-blue-theme/src/Button.tsx\n", buf.String())

	buf.Reset()
	require.NoError(t, r.CopyResult(copier.Result{Err: errors.New(errors.ErrVerificationMiss, "copied entry not found at destination")}))
	assert.Equal(t, "Copy failed: copied entry not found at destination\n", buf.String())

	buf.Reset()
	j := NewRenderer(&buf, FormatJSON, true)
	require.NoError(t, j.CopyResult(copier.Result{Err: errors.New(errors.ErrDirCreate, "x")}))
	assert.Contains(t, buf.String(), `"code": "DIR_CREATE"`)
}

func TestActionsText(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, FormatText, true)

	require.NoError(t, r.Actions([]brand.Action{
		{ID: "CopyToCoreAction", Label: "Copy to Core", Enabled: false, Reason: "file is already in the target root"},
		{ID: "CopyToblueAction", Label: "Copy to blue", Enabled: true},
	}))
	assert.Equal(t, "Copy to Core  file is already in the target root\nCopy to blue  CopyToblueAction\n", buf.String())
}
