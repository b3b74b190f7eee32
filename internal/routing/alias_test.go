// internal/routing/alias_test.go
//
// Unit-tests for the alias rewrite middleware.
//
// Context
// -------
// These tests verify four behaviours:
//
//   • Cache-hit rewrite in BOTH mode                         → 200, path mutated
//   • Cache-miss in ALIAS-only mode                          → 404
//   • ABSOLUTE routing mode leaves path untouched            → 200
//   • Stale cache reloads from route_alias via sqlmock
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
// • Lines ≤ 100 columns.

package routing

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/agrocms/internal/database"
)

func TestAliasRewrite_CacheHit(t *testing.T) {
	cache := NewAliasCache(database.NewPool("", database.DefaultOptions()), time.Minute)
	cache.store("/npk", "/products/npk-20-20-20")

	var got string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/npk", nil)
	rr := httptest.NewRecorder()

	Middleware(cache, RouteModeBoth)(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if got != "/products/npk-20-20-20" {
		t.Fatalf("rewrite failed: got path %q", got)
	}
}

func TestAliasRewrite_Miss_AliasOnly(t *testing.T) {
	cache := NewAliasCache(database.NewPool("", database.DefaultOptions()), time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	rr := httptest.NewRecorder()

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	Middleware(cache, RouteModeAliasOnly)(ok).ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestAliasRewrite_AbsoluteMode_NoMutation(t *testing.T) {
	cache := NewAliasCache(database.NewPool("", database.DefaultOptions()), time.Minute)
	cache.store("/keep", "/elsewhere")

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/keep" {
			t.Fatalf("path mutated in absolute mode: %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/keep", nil)
	rr := httptest.NewRecorder()

	Middleware(cache, RouteModeAbsolute)(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
}

func TestAliasCache_ReloadWhenStale(t *testing.T) {
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer raw.Close()

	mock.ExpectQuery("SELECT alias_path, target_path FROM route_alias").
		WillReturnRows(sqlmock.NewRows([]string{"alias_path", "target_path"}).
			AddRow("/about-us", "/pages/about"))

	pool := database.NewPoolFromDB(sqlx.NewDb(raw, "mysql"))
	cache := NewAliasCache(pool, time.Minute)

	var got string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { got = r.URL.Path })
	Middleware(cache, RouteModeBoth)(next).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/about-us", nil))

	if got != "/pages/about" {
		t.Fatalf("got %q, want /pages/about", got)
	}
	if cache.Len() != 1 {
		t.Fatalf("Len = %d, want 1", cache.Len())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
