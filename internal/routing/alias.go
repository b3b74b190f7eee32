// internal/routing/alias.go
//
// Alias-resolution cache and middleware.
//
// Context
// -------
// Editors may publish friendly paths ("/npk" → "/products/npk-20-20-20").
// The route_alias table holds alias_path → target_path pairs; this file keeps
// them in memory and rewrites r.URL.Path before chi matches routes.
//
// Workflow
// --------
//   1. cmd/web builds one AliasCache via NewAliasCache(pool, ttl).
//   2. The router wires Middleware(cache, mode) ahead of component mounts.
//   3. Middleware refreshes the table when the TTL expires or Reset was
//      called, then rewrites on hit.  A miss falls through in "both" mode
//      and 404s in "alias" mode.
//
// Notes
// -----
// • A failed refresh keeps serving the previous snapshot.
// • Oxford commas, two spaces after periods.

package routing

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/agrocms/internal/database"
)

const (
	RouteModeAbsolute  = "absolute"
	RouteModeAliasOnly = "alias"
	RouteModeBoth      = "both"
)

// -----------------------------------------------------------------------------
// AliasCache
// -----------------------------------------------------------------------------

// AliasCache stores alias→target pairs plus TTL state.  Zero value is
// unusable; construct with NewAliasCache.
type AliasCache struct {
	mu       sync.RWMutex
	data     map[string]string
	loadedAt time.Time
	ttl      time.Duration
	pool     *database.Pool
	now      func() time.Time
}

// NewAliasCache returns an empty cache that loads lazily from pool.
func NewAliasCache(pool *database.Pool, ttl time.Duration) *AliasCache {
	return &AliasCache{data: map[string]string{}, pool: pool, ttl: ttl, now: time.Now}
}

// Load refreshes all aliases from route_alias.
func (c *AliasCache) Load(ctx context.Context) error {
	db, err := c.pool.DB(ctx)
	if err != nil {
		return err
	}

	var rows []struct {
		Alias  string `db:"alias_path"`
		Target string `db:"target_path"`
	}
	if err := db.SelectContext(ctx, &rows,
		`SELECT alias_path, target_path FROM route_alias`); err != nil {
		return err
	}

	fresh := make(map[string]string, len(rows))
	for _, r := range rows {
		fresh[r.Alias] = r.Target
	}

	c.mu.Lock()
	c.data = fresh
	c.loadedAt = c.now()
	c.mu.Unlock()

	zap.L().Debug("alias cache load", zap.Int("count", len(fresh)))
	return nil
}

// Reset marks the snapshot stale so the next request reloads it.
func (c *AliasCache) Reset() {
	c.mu.Lock()
	c.loadedAt = time.Time{}
	c.mu.Unlock()
}

// Len reports the number of cached aliases.
func (c *AliasCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

func (c *AliasCache) store(alias, target string) {
	c.mu.Lock()
	c.data[alias] = target
	c.loadedAt = c.now()
	c.mu.Unlock()
}

func (c *AliasCache) lookup(path string) (string, bool) {
	c.mu.RLock()
	target, ok := c.data[path]
	c.mu.RUnlock()
	return target, ok
}

func (c *AliasCache) needsRefresh() bool {
	c.mu.RLock()
	stale := c.loadedAt.IsZero() || c.now().Sub(c.loadedAt) > c.ttl
	c.mu.RUnlock()
	return stale
}

// -----------------------------------------------------------------------------
// Middleware factory
// -----------------------------------------------------------------------------

// Middleware returns a chi middleware that rewrites alias paths per mode.
func Middleware(cache *AliasCache, mode string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if mode == RouteModeAbsolute || cache == nil {
				next.ServeHTTP(w, r)
				return
			}

			if cache.needsRefresh() {
				if err := cache.Load(r.Context()); err != nil {
					zap.L().Warn("alias cache reload failed", zap.Error(err))
				}
			}

			if target, ok := cache.lookup(r.URL.Path); ok {
				original := r.URL.Path
				r.URL.Path = target
				r.RequestURI = target
				zap.L().Debug("alias rewrite",
					zap.String("from", original),
					zap.String("to", target))

				next.ServeHTTP(w, r)
				return
			}

			if mode == RouteModeAliasOnly {
				http.NotFound(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
