// internal/view/render.go
//
// Central view engine: template sets, func-map injection, the rendered
// page cache, and HTML error pages.
//
// Public helpers
// --------------
//   - Render        – render a page uncached and write it to w.
//   - RenderToBytes – render a page into memory.
//   - RenderPartial – render one layout/partial template (widgets).
//   - Page          – the cached read path for public pages.
//   - Error         – translate an error into a 404/413/503/500 page.
//
// Template sets
// -------------
// One set per page: every layout and partial of the theme plus
// pages/<name>.html.  Sets are parsed once and kept in an LRU; the dev
// watcher purges it when a template changes.  Execution always starts at
// "base", which calls the page's "content" block.
//
// Page cache
// ----------
// Key:  page:<lang>:<path>?<parameters the handler declared>
// Tags: whatever the handler passes, plus path:<path> and the shared
// layout tags (the base layout shows categories, company, and pages).  A
// page that rendered a CacheSkip widget is served but not stored.
//
// Style
// -----
// • Oxford commas, two spaces after periods.

package view

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/agrocms/internal/api"
	"github.com/yanizio/agrocms/internal/cache"
	"github.com/yanizio/agrocms/internal/content"
	"github.com/yanizio/agrocms/internal/database"
	"github.com/yanizio/agrocms/internal/logger"
	"github.com/yanizio/agrocms/internal/site"
	"github.com/yanizio/agrocms/internal/theme"
	"github.com/yanizio/agrocms/internal/upload"
	"github.com/yanizio/agrocms/internal/widget"
)

//
// cache definitions
//

// CachePolicy hints whether output may be stored in the page cache.
type CachePolicy int

const (
	CacheDefault CachePolicy = iota // obey the page TTL
	CacheSkip                       // never cache the page that embeds it
	CacheForce                      // always cache (long TTL, reserved)
)

// TagRendered is carried by every cached page so a template change can
// drop them all at once.
const TagRendered = "rendered"

var layoutTags = []string{TagRendered, content.TagCategories, content.TagCompany, content.TagPages}

// Options configures an Engine.
type Options struct {
	Theme    *theme.Theme
	Widgets  *widget.Registry
	Pages    *cache.Store
	PageTTL  time.Duration
	Capacity int // parsed template sets kept in memory
}

// Engine renders theme pages.  Safe for concurrent use.
type Engine struct {
	theme   *theme.Theme
	widgets *widget.Registry
	pages   *cache.Store
	ttl     time.Duration
	sets    *cache.LRU[string, *template.Template]
}

// New returns an Engine.
func New(o Options) *Engine {
	if o.Capacity <= 0 {
		o.Capacity = 128
	}
	if o.PageTTL <= 0 {
		o.PageTTL = 10 * time.Minute
	}
	if o.Widgets == nil {
		o.Widgets = widget.NewRegistry()
	}
	if o.Pages == nil {
		o.Pages = cache.New()
	}
	return &Engine{
		theme:   o.Theme,
		widgets: o.Widgets,
		pages:   o.Pages,
		ttl:     o.PageTTL,
		sets:    cache.NewLRU[string, *template.Template](o.Capacity),
	}
}

// Theme returns the active theme.
func (e *Engine) Theme() *theme.Theme { return e.theme }

// Purge drops every parsed template set.
func (e *Engine) Purge() { e.sets.Purge() }

//
// public helpers
//

// RenderToBytes executes page name with rctx as the dot.
func (e *Engine) RenderToBytes(rctx *site.Context, name string) ([]byte, error) {
	t, err := e.load(name)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", rctx); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Render writes page name uncached with status.  Nothing is written when
// rendering fails, so the caller can still send an error page.
func (e *Engine) Render(w http.ResponseWriter, rctx *site.Context, status int, name string) error {
	body, err := e.RenderToBytes(rctx, name)
	if err != nil {
		return err
	}
	w.Header().Set("Cache-Control", "no-store")
	api.WriteBody(w, rctx.Request, status, "text/html; charset=utf-8", body)
	return nil
}

// RenderPartial executes a template defined in the theme's layouts or
// partials, such as a widget's markup, with data as the dot.
func (e *Engine) RenderPartial(name string, data any) (string, error) {
	t, err := e.loadShared()
	if err != nil {
		return "", err
	}
	if t.Lookup(name) == nil {
		return "", fmt.Errorf("view: partial %q: %w", name, os.ErrNotExist)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render partial %s: %w", name, err)
	}
	return buf.String(), nil
}

// uncacheable carries a rendered body out of cache.Fetch without storing it.
type uncacheable struct{ body []byte }

func (u *uncacheable) Error() string { return "view: page not cacheable" }

// Page is the cached read path.  On a miss, load runs and its result
// becomes rctx.Data; errors from load are returned untouched and never
// cached.
func (e *Engine) Page(w http.ResponseWriter, rctx *site.Context, name string,
	load func(ctx context.Context) (any, error), tags ...string) error {

	all := make([]string, 0, len(layoutTags)+len(tags)+1)
	all = append(all, layoutTags...)
	all = append(all, tags...)
	all = append(all, cache.PathTag(rctx.Path))

	body, err := cache.Fetch(rctx.Ctx(), e.pages, PageKey(rctx), e.ttl, all,
		func(ctx context.Context) ([]byte, error) {
			if load != nil {
				data, err := load(ctx)
				if err != nil {
					return nil, err
				}
				rctx.Data = data
			}
			b, err := e.RenderToBytes(rctx, name)
			if err != nil {
				return nil, err
			}
			if rctx.Uncacheable() {
				return nil, &uncacheable{body: b}
			}
			return b, nil
		})

	var u *uncacheable
	if errors.As(err, &u) {
		body, err = u.body, nil
	}
	if err != nil {
		return err
	}
	api.WriteBody(w, rctx.Request, http.StatusOK, "text/html; charset=utf-8", body)
	return nil
}

// PageKey is the cache key of the page rctx renders.  Only rctx.Query
// takes part, so unknown parameters share one entry.
func PageKey(rctx *site.Context) string {
	return "page:" + string(rctx.Lang) + ":" + rctx.Path + "?" + rctx.Query.Encode()
}

// ErrorPage is the Data of the "error" page.
type ErrorPage struct {
	Status  int
	Message string
}

// Error renders the HTML error page for err.  Not found, oversized bodies,
// and unavailable map to 404, 413, and 503; everything else is logged and
// becomes 500.
func (e *Engine) Error(w http.ResponseWriter, rctx *site.Context, err error) {
	status, key := http.StatusInternalServerError, "error.500"
	switch {
	case errors.Is(err, content.ErrNotFound):
		status, key = http.StatusNotFound, "error.404"
	case errors.Is(err, database.ErrUnavailable):
		status, key = http.StatusServiceUnavailable, "error.503"
	case errors.Is(err, upload.ErrTooLarge):
		status, key = http.StatusRequestEntityTooLarge, "error.413"
	}
	log := logger.FromContext(rctx.Ctx())
	if status >= 500 {
		log.Errorw("page error", "status", status, "err", err)
	}

	rctx.Data = ErrorPage{Status: status, Message: rctx.T(key)}
	rctx.Head.SetTitle(rctx.T(key))
	if rerr := e.Render(w, rctx, status, "error"); rerr != nil {
		log.Errorw("error page render failed", "err", rerr)
		http.Error(w, http.StatusText(status), status)
	}
}

//
// internal: load
//

func (e *Engine) load(name string) (*template.Template, error) {
	if t, ok := e.sets.Get(name); ok {
		return t, nil
	}
	page := e.theme.PageFile(name)
	if _, err := os.Stat(page); err != nil {
		return nil, fmt.Errorf("view: page %q: %w", name, err)
	}
	shared, err := e.theme.SharedFiles()
	if err != nil {
		return nil, err
	}
	t, err := template.New(name).Funcs(e.funcMap()).ParseFiles(append(shared, page)...)
	if err != nil {
		return nil, fmt.Errorf("view: parse %q: %w", name, err)
	}
	e.sets.Add(name, t)
	return t, nil
}

const sharedKey = "\x00shared"

func (e *Engine) loadShared() (*template.Template, error) {
	if t, ok := e.sets.Get(sharedKey); ok {
		return t, nil
	}
	shared, err := e.theme.SharedFiles()
	if err != nil {
		return nil, err
	}
	t := template.New("shared").Funcs(e.funcMap())
	if len(shared) > 0 {
		if t, err = t.ParseFiles(shared...); err != nil {
			return nil, fmt.Errorf("view: parse partials: %w", err)
		}
	}
	e.sets.Add(sharedKey, t)
	return t, nil
}

//
// func-map builders
//

func (e *Engine) funcMap() template.FuncMap {
	return template.FuncMap{
		"dict":   dict,
		"widget": e.widgetFunc,
		"asset":  e.theme.Asset,
		"date":   formatDate,
		"raw":    func(s string) template.HTML { return template.HTML(s) },
		"join":   strings.Join,
		"add":    func(a, b int) int { return a + b },
	}
}

// dict builds a map in templates: {{ dict "k" 1 "k2" "v" }}.
func dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		m[key] = kv[i+1]
	}
	return m
}

// formatDate renders t as "2 January 2006"; zero time renders empty.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2 January 2006")
}

// widgetFunc renders a registered widget:
//
//	{{ widget $ "catalog/menu" }}
//	{{ widget $ "contact/message" (dict "action" "/contact") }}
//
// Errors are hidden behind <!-- comments --> so visitors never see them.
func (e *Engine) widgetFunc(rctx *site.Context, key string, params ...map[string]any) template.HTML {
	w := e.widgets.Lookup(key)
	if w == nil {
		zap.L().Warn("widget not found", zap.String("widget", key))
		return template.HTML("<!-- widget not found -->")
	}
	p := map[string]any{}
	if len(params) > 0 && params[0] != nil {
		p = params[0]
	}
	html, policy, err := w.Render(rctx, p)
	if CachePolicy(policy) == CacheSkip {
		rctx.MarkUncacheable()
	}
	if err != nil {
		zap.L().Warn("widget render failed", zap.String("widget", key), zap.Error(err))
		return template.HTML("<!-- widget error -->")
	}
	return template.HTML(html)
}
