package view

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/agrocms/internal/cache"
	"github.com/yanizio/agrocms/internal/content"
	"github.com/yanizio/agrocms/internal/database"
	"github.com/yanizio/agrocms/internal/i18n"
	"github.com/yanizio/agrocms/internal/site"
	"github.com/yanizio/agrocms/internal/theme"
	"github.com/yanizio/agrocms/internal/widget"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func newTestEngine(t *testing.T) (*Engine, *site.Factory, *cache.Store) {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "layouts", "base.html"),
		`{{ define "base" }}<html dir="{{ .Dir }}">{{ template "content" . }}</html>{{ end }}`)
	writeFile(t, filepath.Join(root, "pages", "hello.html"),
		`{{ define "content" }}<p>{{ .Data }}</p>{{ end }}`)
	writeFile(t, filepath.Join(root, "pages", "withform.html"),
		`{{ define "content" }}{{ widget $ "test/skip" }}<p>{{ .Data }}</p>{{ end }}`)
	writeFile(t, filepath.Join(root, "pages", "error.html"),
		`{{ define "content" }}<h1>{{ .Data.Status }}</h1>{{ end }}`)

	reg := widget.NewRegistry()
	reg.Register(widget.Func{Key: "test/skip", Fn: func(any, map[string]any) (string, int, error) {
		return "<form></form>", int(CacheSkip), nil
	}})

	th := theme.New("test", root)
	store := cache.New()
	e := New(Options{Theme: th, Widgets: reg, Pages: store})
	return e, site.NewFactory(nil, th, "Agro", ""), store
}

func TestRender_Direction(t *testing.T) {
	e, f, _ := newTestEngine(t)
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	r = r.WithContext(i18n.WithLang(r.Context(), i18n.Arabic))
	rctx := f.New(r)
	rctx.Data = "مرحبا"

	out, err := e.RenderToBytes(rctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, `<html dir="rtl"><p>مرحبا</p></html>`, string(out))

	_, err = e.RenderToBytes(rctx, "missing")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPage_CachesUntilPathInvalidated(t *testing.T) {
	e, f, store := newTestEngine(t)
	calls := 0
	load := func(context.Context) (any, error) {
		calls++
		return calls, nil
	}

	serve := func() *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		rctx := f.New(httptest.NewRequest(http.MethodGet, "/blog/a", nil))
		require.NoError(t, e.Page(rr, rctx, "hello", load, content.TagBlog))
		return rr
	}

	first := serve()
	assert.Contains(t, first.Body.String(), "<p>1</p>")
	assert.NotEmpty(t, first.Header().Get("ETag"))
	assert.Contains(t, serve().Body.String(), "<p>1</p>")
	assert.Equal(t, 1, calls)

	store.InvalidatePaths("/blog/a")
	assert.Contains(t, serve().Body.String(), "<p>2</p>")

	store.Invalidate(content.TagBlog)
	assert.Contains(t, serve().Body.String(), "<p>3</p>")
}

func TestPage_ConditionalGet(t *testing.T) {
	e, f, _ := newTestEngine(t)
	rr := httptest.NewRecorder()
	require.NoError(t, e.Page(rr, f.New(httptest.NewRequest(http.MethodGet, "/", nil)), "hello", nil))
	tag := rr.Header().Get("ETag")

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("If-None-Match", tag)
	rr = httptest.NewRecorder()
	require.NoError(t, e.Page(rr, f.New(r), "hello", nil))
	assert.Equal(t, http.StatusNotModified, rr.Code)
}

func TestPage_SkipWidgetIsNotStored(t *testing.T) {
	e, f, _ := newTestEngine(t)
	calls := 0
	load := func(context.Context) (any, error) {
		calls++
		return calls, nil
	}
	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		require.NoError(t, e.Page(rr, f.New(httptest.NewRequest(http.MethodGet, "/contact", nil)), "withform", load))
		assert.Contains(t, rr.Body.String(), "<form></form>")
	}
	assert.Equal(t, 2, calls)
}

func TestPage_LoadErrorPropagates(t *testing.T) {
	e, f, _ := newTestEngine(t)
	err := e.Page(httptest.NewRecorder(), f.New(httptest.NewRequest(http.MethodGet, "/blog/nope", nil)), "hello",
		func(context.Context) (any, error) { return nil, content.ErrNotFound })
	assert.ErrorIs(t, err, content.ErrNotFound)
}

func TestPageKey_OnlyDeclaredParams(t *testing.T) {
	_, f, _ := newTestEngine(t)
	r := httptest.NewRequest(http.MethodGet, "/products?lang=ar&category=npk&utm_source=x", nil)
	r = r.WithContext(i18n.WithLang(r.Context(), i18n.Arabic))
	assert.Equal(t, "page:ar:/products?category=npk", PageKey(f.New(r, "category")))
	assert.Equal(t, "page:ar:/products?", PageKey(f.New(r)))
}

func TestPage_JunkQueryParamsShareOneEntry(t *testing.T) {
	e, f, store := newTestEngine(t)
	for i := 0; i < 50; i++ {
		rr := httptest.NewRecorder()
		target := "/about?utm=" + strconv.Itoa(i)
		require.NoError(t, e.Page(rr, f.New(httptest.NewRequest(http.MethodGet, target, nil)), "hello",
			func(context.Context) (any, error) { return "about", nil }))
		assert.NotContains(t, rr.Body.String(), "utm")
	}
	assert.Equal(t, 1, store.Len())
}

func TestError_StatusMapping(t *testing.T) {
	e, f, _ := newTestEngine(t)
	cases := map[error]int{
		content.ErrNotFound:     http.StatusNotFound,
		database.ErrUnavailable: http.StatusServiceUnavailable,
		os.ErrPermission:        http.StatusInternalServerError,
	}
	for err, want := range cases {
		rr := httptest.NewRecorder()
		e.Error(rr, f.New(httptest.NewRequest(http.MethodGet, "/", nil)), err)
		assert.Equal(t, want, rr.Code, err.Error())
		assert.Contains(t, rr.Body.String(), "<h1>")
	}
}

func TestDict(t *testing.T) {
	m := dict("a", 1, "b", "x", "dangling")
	assert.Equal(t, map[string]any{"a": 1, "b": "x"}, m)
}
