// internal/cache/store.go
//
// Read-through cache with tag invalidation.
//
// Context
// -------
// Content accessors memoise query results under a fixed key, tagged with a
// content-type label ("blog", "categories", …) and a TTL.  Mutations call
// Invalidate with the same tag, so the next read reloads.
//
// Every tag owns a generation counter.  An entry records the generations of
// its tags at load time and is only served while they are unchanged.
// Invalidate is therefore O(tags) and never walks the entry map.  The same
// generations are folded into the singleflight key, so a read issued after
// an invalidation never joins a load that started before it, and a load
// that straddles an invalidation never populates the cache.
//
// Notes
// -----
// • Errors are never cached; callers decide how to degrade.
// • Cached values are shared.  Callers must treat them as read-only.
// • No capacity bound.  The janitor drops expired and stale entries.
package cache

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/yanizio/agrocms/internal/metrics"
)

// pathTagPrefix marks tags that name a rendered page path.
const pathTagPrefix = "path:"

type entry struct {
	val     any
	expires time.Time
	tags    []string
	gens    []uint64
}

// Store is safe for concurrent use.  The zero value is not usable; call New.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
	gens    map[string]uint64
	sfg     singleflight.Group
	now     func() time.Time
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		entries: make(map[string]*entry),
		gens:    make(map[string]uint64),
		now:     time.Now,
	}
}

/*──────────────────────────── read path ───────────────────────────────────*/

// Fetch returns the cached value for key or runs load, caches its result
// for ttl under tags, and returns it.  Concurrent misses share one load.
func Fetch[T any](ctx context.Context, s *Store, key string, ttl time.Duration,
	tags []string, load func(context.Context) (T, error)) (T, error) {

	if v, ok := s.lookup(key); ok {
		if t, ok := v.(T); ok {
			metrics.CacheHits.WithLabelValues(family(key)).Inc()
			return t, nil
		}
	}
	metrics.CacheMisses.WithLabelValues(family(key)).Inc()

	snap := s.snapshot(tags)
	v, err, _ := s.sfg.Do(flightKey(key, snap), func() (any, error) {
		val, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		s.store(key, val, ttl, tags, snap)
		return val, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func (s *Store) lookup(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok || !s.freshLocked(e) {
		return nil, false
	}
	return e.val, true
}

// freshLocked reports whether e is within TTL and none of its tags moved.
// Caller holds s.mu.
func (s *Store) freshLocked(e *entry) bool {
	if !s.now().Before(e.expires) {
		return false
	}
	for i, tag := range e.tags {
		if s.gens[tag] != e.gens[i] {
			return false
		}
	}
	return true
}

func (s *Store) snapshot(tags []string) []uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]uint64, len(tags))
	for i, tag := range tags {
		out[i] = s.gens[tag]
	}
	return out
}

// store saves val unless a tag was invalidated since snap was taken.
func (s *Store) store(key string, val any, ttl time.Duration, tags []string, snap []uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, tag := range tags {
		if s.gens[tag] != snap[i] {
			zap.L().Debug("cache store skipped, tag moved during load",
				zap.String("key", key), zap.String("tag", tag))
			return
		}
	}
	s.entries[key] = &entry{
		val:     val,
		expires: s.now().Add(ttl),
		tags:    append([]string(nil), tags...),
		gens:    snap,
	}
}

/*──────────────────────────── write path ──────────────────────────────────*/

// Invalidate marks every entry carrying any of tags stale.
func (s *Store) Invalidate(tags ...string) {
	if len(tags) == 0 {
		return
	}
	s.mu.Lock()
	for _, tag := range tags {
		s.gens[tag]++
	}
	s.mu.Unlock()

	for _, tag := range tags {
		kind := "tag"
		if strings.HasPrefix(tag, pathTagPrefix) {
			kind = "path"
		}
		metrics.CacheInvalidations.WithLabelValues(kind).Inc()
	}
}

// InvalidatePaths invalidates the page caches rendered for paths.
func (s *Store) InvalidatePaths(paths ...string) {
	tags := make([]string, 0, len(paths))
	for _, p := range paths {
		tags = append(tags, PathTag(p))
	}
	s.Invalidate(tags...)
}

// Delete drops one key.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Len reports the number of stored entries, fresh or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// PathTag returns the tag under which page renders of path are stored.
func PathTag(path string) string { return pathTagPrefix + path }

/*──────────────────────────── janitor ─────────────────────────────────────*/

// RunJanitor sweeps expired and stale entries every interval until ctx is
// cancelled.
func (s *Store) RunJanitor(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.Sweep(); n > 0 {
				zap.L().Debug("cache sweep", zap.Int("evicted", n))
			}
		}
	}
}

// Sweep removes every entry that would no longer be served and returns the
// count.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	for k, e := range s.entries {
		if !s.freshLocked(e) {
			delete(s.entries, k)
			n++
		}
	}
	if n > 0 {
		metrics.CacheEvictions.Add(float64(n))
	}
	return n
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

func flightKey(key string, gens []uint64) string {
	var b strings.Builder
	b.WriteString(key)
	for _, g := range gens {
		b.WriteByte('|')
		b.WriteString(strconv.FormatUint(g, 10))
	}
	return b.String()
}

// family returns the key prefix before the first ":" for metric labels.
func family(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}
