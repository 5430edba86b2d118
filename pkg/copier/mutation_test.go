package copier

import (
	"context"
	"testing"

	"github.com/arthur-debert/brandsync/pkg/errors"
	"github.com/arthur-debert/brandsync/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOnlyFSNeverOverwrites(t *testing.T) {
	fs := testutil.NewTestFS()
	require.NoError(t, fs.MkdirAll("/work/app-react", 0755))
	require.NoError(t, fs.WriteFile("/work/app-react/a.txt", []byte("original"), 0644))
	c := newCreateOnlyFS(fs)

	err := c.WriteFile("/work/app-react/a.txt", []byte("replacement"), 0644)
	require.Error(t, err)

	data, err := fs.ReadFile("/work/app-react/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
}

func TestCreateOnlyFSMapsRelativeNames(t *testing.T) {
	fs := testutil.NewTestFS()
	c := newCreateOnlyFS(fs)

	require.NoError(t, c.MkdirAll("work/app-react", 0755))
	require.NoError(t, c.WriteFile("work/app-react/b.txt", []byte("b"), 0644))

	data, err := fs.ReadFile("/work/app-react/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "b", string(data))

	info, err := c.Stat("/work/app-react/b.txt")
	require.NoError(t, err)
	assert.False(t, info.IsDir())
}

func TestMutatorAppliesSteps(t *testing.T) {
	fs := testutil.NewTestFS()
	require.NoError(t, fs.MkdirAll("/work/app-react/src", 0755))
	require.NoError(t, fs.MkdirAll("/work/app-react-blue-theme", 0755))
	require.NoError(t, fs.WriteFile("/work/app-react/src/Button.tsx", []byte("button"), 0644))
	m := newMutator(fs)
	ctx := context.Background()

	require.NoError(t, m.apply(ctx, 0, Step{Kind: StepMkdir, Dest: "/work/app-react-blue-theme/src"}))
	require.NoError(t, m.apply(ctx, 1, Step{
		Kind:   StepCopy,
		Source: "/work/app-react/src/Button.tsx",
		Dest:   "/work/app-react-blue-theme/src/Button.tsx",
	}))

	data, err := fs.ReadFile("/work/app-react-blue-theme/src/Button.tsx")
	require.NoError(t, err)
	assert.Equal(t, "button", string(data))
}

func TestMutatorCopyOntoExistingFileFails(t *testing.T) {
	fs := testutil.NewTestFS()
	require.NoError(t, fs.MkdirAll("/work/app-react", 0755))
	require.NoError(t, fs.MkdirAll("/work/app-react-red-theme", 0755))
	require.NoError(t, fs.WriteFile("/work/app-react/a.txt", []byte("core"), 0644))
	require.NoError(t, fs.WriteFile("/work/app-react-red-theme/a.txt", []byte("red"), 0644))
	m := newMutator(fs)

	err := m.apply(context.Background(), 0, Step{
		Kind:   StepCopy,
		Source: "/work/app-react/a.txt",
		Dest:   "/work/app-react-red-theme/a.txt",
	})

	assert.Equal(t, errors.ErrFileCreate, errors.GetErrorCode(err))
	data, readErr := fs.ReadFile("/work/app-react-red-theme/a.txt")
	require.NoError(t, readErr)
	assert.Equal(t, "red", string(data))
}

func TestMutatorIgnoresSkipSteps(t *testing.T) {
	fs := testutil.NewTestFS()
	m := newMutator(fs)

	require.NoError(t, m.apply(context.Background(), 0, Step{Kind: StepSkip, Dest: "/work/missing"}))

	_, err := fs.Stat("/work/missing")
	assert.Error(t, err)
}
