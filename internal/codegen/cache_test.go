package codegen

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scenegen/internal/ir"
	"github.com/roach88/scenegen/internal/testutil"
)

func TestCacheReturnsSameContextForSameContent(t *testing.T) {
	cache, err := NewCache(4)
	require.NoError(t, err)

	build := func() *ir.SceneStructure {
		return testutil.NewScene("cached").Object("a", ir.ObjectCircle).Build()
	}

	first, err := cache.Build(build())
	require.NoError(t, err)
	second, err := cache.Build(build())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, cache.Len())

	other, err := cache.Build(testutil.NewScene("other").Build())
	require.NoError(t, err)
	assert.NotSame(t, first, other)
	assert.Equal(t, 2, cache.Len())

	cache.Purge()
	assert.Equal(t, 0, cache.Len())
}

func TestCacheEvicts(t *testing.T) {
	cache, err := NewCache(2)
	require.NoError(t, err)

	for _, title := range []string{"a", "b", "c"} {
		_, err := cache.Build(testutil.NewScene(title).Build())
		require.NoError(t, err)
	}
	assert.Equal(t, 2, cache.Len())
}

func TestCacheDefaultSize(t *testing.T) {
	cache, err := NewCache(0)
	require.NoError(t, err)
	assert.NotNil(t, cache)
}

func TestCacheConcurrent(t *testing.T) {
	cache, err := NewCache(8)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, err := cache.Build(testutil.NewScene("shared").Object("a", ir.ObjectCircle).Build())
			assert.NoError(t, err)
			assert.Equal(t, "shared", ctx.SceneTitle)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, cache.Len())
}

func TestCacheKeepsNormalizationFormsApart(t *testing.T) {
	cache, err := NewCache(4)
	require.NoError(t, err)

	nfd := testutil.NewScene("accents").Object("e\u0301", ir.ObjectCircle).Build()
	nfc := testutil.NewScene("accents").Object("\u00e9", ir.ObjectCircle).Build()

	_, err = cache.Build(nfd)
	require.NoError(t, err)
	got, err := cache.Build(nfc)
	require.NoError(t, err)

	assert.Contains(t, got.DependencyMap, "\u00e9")
	assert.NotContains(t, got.DependencyMap, "e\u0301")
	assert.Equal(t, 2, cache.Len())
}
