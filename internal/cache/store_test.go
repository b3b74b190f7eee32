package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_HitAfterMiss(t *testing.T) {
	s := New()
	var calls int
	load := func(context.Context) ([]string, error) {
		calls++
		return []string{"a", "b"}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := Fetch(context.Background(), s, "blog:list", time.Minute, []string{"blog"}, load)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, got)
	}
	assert.Equal(t, 1, calls)
}

func TestFetch_InvalidateForcesReload(t *testing.T) {
	s := New()
	version := "v1"
	load := func(context.Context) (string, error) { return version, nil }

	got, err := Fetch(context.Background(), s, "company", time.Hour, []string{"company"}, load)
	require.NoError(t, err)
	assert.Equal(t, "v1", got)

	version = "v2"
	s.Invalidate("company")

	got, err = Fetch(context.Background(), s, "company", time.Hour, []string{"company"}, load)
	require.NoError(t, err)
	assert.Equal(t, "v2", got, "read after invalidation must see the write")
}

func TestFetch_UnrelatedTagKeepsEntry(t *testing.T) {
	s := New()
	var calls int
	load := func(context.Context) (int, error) { calls++; return calls, nil }

	_, _ = Fetch(context.Background(), s, "awards", time.Hour, []string{"awards"}, load)
	s.Invalidate("blog")
	got, _ := Fetch(context.Background(), s, "awards", time.Hour, []string{"awards"}, load)
	assert.Equal(t, 1, got)
}

func TestFetch_TTLExpiry(t *testing.T) {
	s := New()
	now := time.Unix(1000, 0)
	s.now = func() time.Time { return now }

	var calls int
	load := func(context.Context) (int, error) { calls++; return calls, nil }

	_, _ = Fetch(context.Background(), s, "k", 10*time.Second, nil, load)
	now = now.Add(11 * time.Second)
	got, _ := Fetch(context.Background(), s, "k", 10*time.Second, nil, load)
	assert.Equal(t, 2, got)
}

func TestFetch_ErrorsAreNotCached(t *testing.T) {
	s := New()
	boom := errors.New("boom")
	fail := true
	load := func(context.Context) (int, error) {
		if fail {
			return 0, boom
		}
		return 7, nil
	}

	_, err := Fetch(context.Background(), s, "k", time.Hour, nil, load)
	require.ErrorIs(t, err, boom)

	fail = false
	got, err := Fetch(context.Background(), s, "k", time.Hour, nil, load)
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestFetch_InvalidationDuringLoadIsNotStored(t *testing.T) {
	s := New()
	started := make(chan struct{})
	release := make(chan struct{})

	go func() {
		_, _ = Fetch(context.Background(), s, "cats", time.Hour, []string{"categories"},
			func(context.Context) (string, error) {
				close(started)
				<-release
				return "stale", nil
			})
	}()

	<-started
	s.Invalidate("categories")
	close(release)

	// Give the first load time to try its store.
	require.Eventually(t, func() bool {
		got, err := Fetch(context.Background(), s, "cats", time.Hour, []string{"categories"},
			func(context.Context) (string, error) { return "fresh", nil })
		return err == nil && got == "fresh"
	}, time.Second, 5*time.Millisecond)
}

func TestFetch_CollapsesConcurrentMisses(t *testing.T) {
	s := New()
	var calls atomic.Int32
	gate := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = Fetch(context.Background(), s, "tree", time.Hour, []string{"categories"},
				func(context.Context) (int, error) {
					calls.Add(1)
					<-gate
					return 1, nil
				})
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(gate)
	wg.Wait()

	assert.LessOrEqual(t, calls.Load(), int32(10))
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
	assert.Equal(t, 1, s.Len())
}

func TestInvalidatePathsAndSweep(t *testing.T) {
	s := New()
	load := func(context.Context) ([]byte, error) { return []byte("<html>"), nil }

	_, _ = Fetch(context.Background(), s, "page:/blog|en", time.Hour,
		[]string{"blog", PathTag("/blog")}, load)
	require.Equal(t, 1, s.Len())

	s.InvalidatePaths("/blog")
	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 0, s.Len())
}

func TestLRU_Evicts(t *testing.T) {
	l := NewLRU[string, int](2)
	l.Add("a", 1)
	l.Add("b", 2)
	_, _ = l.Get("a")
	l.Add("c", 3)

	_, ok := l.Get("b")
	assert.False(t, ok, "b was least recently used")
	v, ok := l.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	l.Purge()
	assert.Equal(t, 0, l.Len())
}
