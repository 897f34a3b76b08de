package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewCacheServesCachedBody(t *testing.T) {
	cache := NewViewCache()
	var builds int32
	build := func(context.Context) ([]byte, error) {
		atomic.AddInt32(&builds, 1)
		return []byte("listing"), nil
	}

	for i := 0; i < 3; i++ {
		body, err := cache.Render(context.Background(), InvoicesPath, "page=1", build)
		require.NoError(t, err)
		assert.Equal(t, "listing", string(body))
	}
	assert.EqualValues(t, 1, builds)
	assert.Equal(t, 1, cache.Len(InvoicesPath))
}

func TestViewCacheRevalidatePathDropsAllVariants(t *testing.T) {
	cache := NewViewCache()
	ctx := context.Background()
	body := func(s string) func(context.Context) ([]byte, error) {
		return func(context.Context) ([]byte, error) { return []byte(s), nil }
	}

	_, err := cache.Render(ctx, InvoicesPath, "page=1", body("one"))
	require.NoError(t, err)
	_, err = cache.Render(ctx, InvoicesPath, "page=2", body("two"))
	require.NoError(t, err)
	_, err = cache.Render(ctx, "/dashboard", "", body("cards"))
	require.NoError(t, err)
	require.Equal(t, 2, cache.Len(InvoicesPath))

	cache.RevalidatePath(ctx, InvoicesPath)
	assert.Zero(t, cache.Len(InvoicesPath))
	assert.Equal(t, 1, cache.Len("/dashboard"))

	got, err := cache.Render(ctx, InvoicesPath, "page=1", body("fresh"))
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(got))
}

func TestViewCacheDoesNotKeepFailedBuilds(t *testing.T) {
	cache := NewViewCache()
	boom := errors.New("boom")

	_, err := cache.Render(context.Background(), InvoicesPath, "", func(context.Context) ([]byte, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, cache.Len(InvoicesPath))
}

func TestViewCacheDiscardsBodyBuiltAcrossRevalidation(t *testing.T) {
	cache := NewViewCache()
	ctx := context.Background()

	body, err := cache.Render(ctx, InvoicesPath, "", func(ctx context.Context) ([]byte, error) {
		cache.RevalidatePath(ctx, InvoicesPath)
		return []byte("stale"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "stale", string(body))
	assert.Zero(t, cache.Len(InvoicesPath))
}

func TestViewCacheDiscardsBodyBuiltAcrossPurge(t *testing.T) {
	cache := NewViewCache()
	ctx := context.Background()

	// Nothing is cached for the path yet, so only a cache-wide generation can
	// tell this build apart from one that started after the purge.
	body, err := cache.Render(ctx, InvoicesPath, "", func(context.Context) ([]byte, error) {
		cache.Purge()
		return []byte("stale"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "stale", string(body))
	assert.Zero(t, cache.Len(InvoicesPath))

	got, err := cache.Render(ctx, InvoicesPath, "", func(context.Context) ([]byte, error) {
		return []byte("fresh"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(got))
	assert.Equal(t, 1, cache.Len(InvoicesPath))
}

func TestViewCacheConcurrentRenders(t *testing.T) {
	cache := NewViewCache()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body, err := cache.Render(context.Background(), InvoicesPath, "", func(context.Context) ([]byte, error) {
				return []byte("listing"), nil
			})
			assert.NoError(t, err)
			assert.Equal(t, "listing", string(body))
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, cache.Len(InvoicesPath))

	cache.Purge()
	assert.Zero(t, cache.Len(InvoicesPath))
}
