package lookupcache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	cache := New[string](8, time.Minute)
	ctx := context.Background()

	var calls atomic.Int32
	load := func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "example.com", nil
	}

	v, cached, err := cache.Get(ctx, "example.com", load)
	require.Nil(t, err)
	require.False(t, cached)
	require.Equal(t, "example.com", v)

	v, cached, err = cache.Get(ctx, "example.com", load)
	require.Nil(t, err)
	require.True(t, cached)
	require.Equal(t, "example.com", v)
	require.Equal(t, int32(1), calls.Load())
}

func TestErrorsAreNotCached(t *testing.T) {
	cache := New[int](8, time.Minute)
	ctx := context.Background()

	_, _, err := cache.Get(ctx, "k", func(ctx context.Context) (int, error) {
		return 0, errors.New("registry down")
	})
	require.NotNil(t, err)
	require.Equal(t, 0, cache.Len())

	v, cached, err := cache.Get(ctx, "k", func(ctx context.Context) (int, error) {
		return 7, nil
	})
	require.Nil(t, err)
	require.False(t, cached)
	require.Equal(t, 7, v)
}

func TestConcurrentMissesShareLoad(t *testing.T) {
	cache := New[int](8, time.Minute)
	ctx := context.Background()

	var calls atomic.Int32
	release := make(chan struct{})
	load := func(ctx context.Context) (int, error) {
		calls.Add(1)
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, _, err := cache.Get(ctx, "same", load)
			if err == nil {
				results[i] = v
			}
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, r := range results {
		require.Equal(t, 42, r)
	}
	require.LessOrEqual(t, calls.Load(), int32(2))
}

func TestLoadOutlivesCallerCancel(t *testing.T) {
	cache := New[int](8, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{})
	release := make(chan struct{})
	load := func(ctx context.Context) (int, error) {
		close(started)
		<-release
		return 42, ctx.Err()
	}

	type result struct {
		value int
		err   error
	}
	done := make(chan result, 1)
	go func() {
		v, _, err := cache.Get(ctx, "k", load)
		done <- result{v, err}
	}()

	<-started
	cancel()
	close(release)

	res := <-done
	require.NoError(t, res.err)
	require.Equal(t, 42, res.value)
	require.Equal(t, 1, cache.Len())
}

func TestExpiry(t *testing.T) {
	cache := New[int](8, 20*time.Millisecond)
	ctx := context.Background()

	_, _, err := cache.Get(ctx, "k", func(ctx context.Context) (int, error) { return 1, nil })
	require.Nil(t, err)

	time.Sleep(60 * time.Millisecond)

	v, cached, err := cache.Get(ctx, "k", func(ctx context.Context) (int, error) { return 2, nil })
	require.Nil(t, err)
	require.False(t, cached)
	require.Equal(t, 2, v)
}
