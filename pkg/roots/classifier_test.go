package roots_test

import (
	"testing"

	"github.com/arthur-debert/brandsync/pkg/roots"
	"github.com/arthur-debert/brandsync/pkg/testutil"
	"github.com/arthur-debert/brandsync/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(rs []types.Root) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Name
	}
	return out
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		dirs     []string
		files    []string
		expected []string
		kinds    []types.RootKind
	}{
		{
			name:     "canonical order",
			dirs:     []string{"app-react-red-theme", "app-react-interlayer", "app-react", "app-react-blue-theme"},
			expected: []string{"app-react", "app-react-interlayer", "app-react-blue-theme", "app-react-red-theme"},
			kinds:    []types.RootKind{types.KindCore, types.KindInterlayer, types.KindBrand, types.KindBrand},
		},
		{
			name:     "ignored names are not brands",
			dirs:     []string{"app-react", "app-react-example-theme", "app-react-all-theme", "app-react-licensee", "app-react-red-theme"},
			expected: []string{"app-react", "app-react-red-theme"},
			kinds:    []types.RootKind{types.KindCore, types.KindBrand},
		},
		{
			name:     "unrelated and unmatched directories are discarded",
			dirs:     []string{"docs", "node_modules", "app-react-tools", "app-reactive", "app-react-green-theme"},
			expected: []string{"app-react-green-theme"},
			kinds:    []types.RootKind{types.KindBrand},
		},
		{
			name:     "affixes sharing a separator still make a brand",
			dirs:     []string{"app-react", "app-react-theme"},
			expected: []string{"app-react", "app-react-theme"},
			kinds:    []types.RootKind{types.KindCore, types.KindBrand},
		},
		{
			name:     "files with root names are skipped",
			dirs:     []string{"app-react"},
			files:    []string{"app-react-red-theme"},
			expected: []string{"app-react"},
			kinds:    []types.RootKind{types.KindCore},
		},
		{
			name:     "no roots",
			dirs:     []string{"src", "docs"},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := testutil.NewTestFS()
			layout := testutil.NewLayout(t, fs, "/work").Root(tt.dirs...)
			for _, f := range tt.files {
				layout.PlainFile(f, "")
			}

			got := roots.NewClassifier(fs, types.DefaultLayout()).Classify("/work")

			assert.Equal(t, tt.expected, names(got))
			for i, kind := range tt.kinds {
				assert.Equal(t, kind, got[i].Kind, "kind of %s", got[i].Name)
				assert.Equal(t, "/work/"+got[i].Name, got[i].Path)
			}
		})
	}
}

func TestClassifyDisplayNames(t *testing.T) {
	fs := testutil.NewTestFS()
	testutil.NewLayout(t, fs, "/work").Root("app-react", "app-react-interlayer", "app-react-red-theme")

	got := roots.NewClassifier(fs, types.DefaultLayout()).Classify("/work")
	require.Len(t, got, 3)

	assert.Equal(t, "Core", got[0].DisplayName)
	assert.Equal(t, "Interlayer", got[1].DisplayName)
	assert.Equal(t, "red", got[2].DisplayName)
}

func TestClassifyMissingBase(t *testing.T) {
	fs := testutil.NewTestFS()
	c := roots.NewClassifier(fs, types.DefaultLayout())

	assert.Empty(t, c.Classify("/does/not/exist"))
	assert.Empty(t, c.Classify(""))
}

func TestClassifyIsDeterministic(t *testing.T) {
	fs := testutil.NewTestFS()
	testutil.NewLayout(t, fs, "/work").Root("app-react-b-theme", "app-react-a-theme", "app-react")
	c := roots.NewClassifier(fs, types.DefaultLayout())

	first := c.Classify("/work")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, c.Classify("/work"))
	}
}

func TestClassifyCustomLayout(t *testing.T) {
	fs := testutil.NewTestFS()
	testutil.NewLayout(t, fs, "/work").Root("web", "web-overlay-x", "web-acme", "web-example")

	layout := types.Layout{
		Prefix:          "web",
		CoreName:        "web",
		InterlayerInfix: "overlay",
		BrandPrefix:     "web-",
		Ignore:          []string{"web-example"},
	}
	got := roots.NewClassifier(fs, layout).Classify("/work")

	assert.Equal(t, []string{"web", "web-overlay-x", "web-acme"}, names(got))
	assert.Equal(t, "acme", got[2].DisplayName)
}

func TestFindByName(t *testing.T) {
	rs := []types.Root{
		{Name: "app-react", Kind: types.KindCore},
		{Name: "app-react-red-theme", Kind: types.KindBrand},
	}

	root, ok := roots.FindByName(rs, "app-react-red-theme")
	require.True(t, ok)
	assert.Equal(t, types.KindBrand, root.Kind)

	_, ok = roots.FindByName(rs, "red")
	assert.False(t, ok)
}
