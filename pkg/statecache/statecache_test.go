package statecache_test

import (
	"sync"
	"testing"

	"github.com/arthur-debert/brandsync/pkg/roots"
	"github.com/arthur-debert/brandsync/pkg/statecache"
	"github.com/arthur-debert/brandsync/pkg/testutil"
	"github.com/arthur-debert/brandsync/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	fs     *testutil.CountingFS
	layout *testutil.LayoutBuilder
	cache  *statecache.Cache
	roots  []types.Root
}

func newFixture(t *testing.T, size int) *fixture {
	t.Helper()
	fs := testutil.NewCountingFS(testutil.NewTestFS())
	layout := testutil.ScenarioLayout(t, fs)
	classifier := roots.NewClassifier(fs, types.DefaultLayout())

	cache, err := statecache.New(fs, func() []types.Root { return classifier.Classify(layout.Base()) }, size)
	require.NoError(t, err)

	return &fixture{
		fs:     fs,
		layout: layout,
		cache:  cache,
		roots:  classifier.Classify(layout.Base()),
	}
}

func (f *fixture) resolve(t *testing.T, root, rel string) types.ResolvedContext {
	t.Helper()
	ctx, err := roots.Resolve(f.layout.Path(root, rel), f.roots)
	require.NoError(t, err)
	return ctx
}

func TestStatesScenario(t *testing.T) {
	f := newFixture(t, 0)
	ctx := f.resolve(t, "app-react", "src/Button.tsx")

	states := f.cache.States(ctx)
	require.Len(t, states, 3)

	assert.Equal(t, "app-react", states[0].Root.Name)
	assert.True(t, states[0].IsCurrent)
	assert.True(t, states[0].Exists())
	assert.Equal(t, ctx.SourcePath, states[0].TargetPath)

	assert.Equal(t, "app-react-blue-theme", states[1].Root.Name)
	assert.False(t, states[1].IsCurrent)
	assert.False(t, states[1].Exists())
	assert.Empty(t, states[1].TargetPath)

	assert.Equal(t, "app-react-red-theme", states[2].Root.Name)
	assert.False(t, states[2].IsCurrent)
	assert.True(t, states[2].Exists())
	assert.Equal(t, f.layout.Path("app-react-red-theme", "src/Button.tsx"), states[2].TargetPath)
}

func TestStatesCacheHitDoesNotProbe(t *testing.T) {
	f := newFixture(t, 0)
	ctx := f.resolve(t, "app-react", "src/Button.tsx")

	first := f.cache.States(ctx)
	require.Positive(t, f.fs.Stats())

	f.fs.Reset()
	second := f.cache.States(ctx)

	assert.Equal(t, first, second)
	assert.Zero(t, f.fs.Stats())
	assert.Equal(t, 1, f.cache.Len())
}

func TestStatesReturnsCopies(t *testing.T) {
	f := newFixture(t, 0)
	ctx := f.resolve(t, "app-react", "src/Button.tsx")

	states := f.cache.States(ctx)
	states[1].TargetPath = "/tampered"

	assert.Empty(t, f.cache.States(ctx)[1].TargetPath)
}

func TestStatesNoRootsNotCached(t *testing.T) {
	fs := testutil.NewTestFS()
	cache, err := statecache.New(fs, func() []types.Root { return nil }, 8)
	require.NoError(t, err)

	states := cache.States(types.ResolvedContext{SourcePath: "/work/app-react/a.txt", RelativePath: "a.txt"})
	assert.Empty(t, states)
	assert.Zero(t, cache.Len())
}

func TestInvalidate(t *testing.T) {
	f := newFixture(t, 0)
	ctx := f.resolve(t, "app-react", "src/Button.tsx")
	other := f.resolve(t, "app-react-red-theme", "src/Button.tsx")

	require.False(t, f.cache.States(ctx)[1].Exists())
	f.cache.States(other)
	require.Equal(t, 2, f.cache.Len())

	f.layout.File("app-react-blue-theme", "src/Button.tsx", "blue")

	// Still served from the cache until invalidated
	assert.False(t, f.cache.States(ctx)[1].Exists())

	f.cache.Invalidate(ctx.SourcePath)
	assert.Equal(t, 1, f.cache.Len())
	assert.True(t, f.cache.States(ctx)[1].Exists())

	f.cache.InvalidateAll()
	assert.Zero(t, f.cache.Len())
}

func TestInvalidateUnknownPath(t *testing.T) {
	f := newFixture(t, 0)
	f.cache.Invalidate("/nowhere")
	f.cache.Invalidate("")
	assert.Zero(t, f.cache.Len())
}

func TestCapacityIsBounded(t *testing.T) {
	f := newFixture(t, 1)
	a := f.resolve(t, "app-react", "src/Button.tsx")
	b := f.resolve(t, "app-react-red-theme", "src/Button.tsx")

	f.cache.States(a)
	f.cache.States(b)

	assert.Equal(t, 1, f.cache.Len())
}

func TestStatesConcurrent(t *testing.T) {
	f := newFixture(t, 0)
	ctx := f.resolve(t, "app-react", "src/Button.tsx")
	want := f.cache.Compute(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%4 == 0 {
				f.cache.InvalidateAll()
			}
			assert.Equal(t, want, f.cache.States(ctx))
		}()
	}
	wg.Wait()
}
