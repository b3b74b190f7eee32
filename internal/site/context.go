// internal/site/context.go
//
// Per-request render context.
//
// Context
// -------
// Every page template receives a *Context as its dot.  It bundles the
// request language, the head builder, the enriched request info, and the
// handler's page data, plus a few lazy lookups the base layout needs on
// every page (company record, published pages for the footer).
//
// Workflow
// --------
//   - A component handler calls Factory.New(r) once per request.
//   - It fills Data and head tags, then hands the Context to view.Engine.
//   - Widgets receive the same Context as their rctx argument.
//
// Notes
// -----
// • Layout lookups degrade to empty with a warning and mark the page
//   uncacheable.  A broken footer must not turn a product page into a 500,
//   nor outlive the outage in the page cache.
// • A Context is owned by one goroutine; it has no locking.

package site

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/agrocms/internal/content"
	"github.com/yanizio/agrocms/internal/head"
	"github.com/yanizio/agrocms/internal/i18n"
	"github.com/yanizio/agrocms/internal/requestinfo"
	"github.com/yanizio/agrocms/internal/theme"
)

// Factory builds Contexts.  One instance is shared by all handlers.
type Factory struct {
	Content  *content.Service
	Theme    *theme.Theme
	SiteName string
	BaseURL  string
	now      func() time.Time
}

// NewFactory returns a Factory.
func NewFactory(svc *content.Service, th *theme.Theme, siteName, baseURL string) *Factory {
	return &Factory{Content: svc, Theme: th, SiteName: siteName, BaseURL: baseURL, now: time.Now}
}

// Context is the template dot for one request.
type Context struct {
	Request *http.Request
	Lang    i18n.Lang
	Head    *head.Builder
	Info    *requestinfo.RequestInfo
	Path    string
	Query   url.Values // the parameters the page reads, lang excluded
	Data    any

	f           *Factory
	uncacheable bool

	company     *content.Company
	companyDone bool
	pages       []content.Page
	pagesDone   bool
}

// New returns a Context for r.  params names the query parameters the page
// reads; every other parameter is dropped from Query, so tracking tags and
// junk never reach the page cache key or the rendered links.  The hreflang
// alternates are added here so every page gets them.
func (f *Factory) New(r *http.Request, params ...string) *Context {
	c := &Context{
		Request: r,
		Lang:    i18n.FromContext(r.Context()),
		Head:    head.New(f.SiteName),
		Info:    requestinfo.FromContext(r.Context()),
		Path:    r.URL.Path,
		Query:   keep(r.URL.Query(), params),
		f:       f,
	}
	canonical := &url.URL{Path: r.URL.Path, RawQuery: c.Query.Encode()}
	c.Head.Alternates(f.BaseURL, canonical, []string{string(i18n.English), string(i18n.Arabic)}, string(i18n.English))
	return c
}

func keep(q url.Values, params []string) url.Values {
	out := url.Values{}
	for _, p := range params {
		if v := q.Get(p); v != "" && p != "lang" {
			out.Set(p, v)
		}
	}
	return out
}

/*──────────────────────────── language ─────────────────────────────────*/

// IsArabic reports whether the page renders right-to-left.
func (c *Context) IsArabic() bool { return c.Lang == i18n.Arabic }

// Dir is the html dir attribute.
func (c *Context) Dir() string { return c.Lang.Dir() }

// T looks up a UI string.
func (c *Context) T(key string) string { return i18n.T(c.Lang, key) }

// Pick chooses the Arabic variant when the page is Arabic and ar is set.
func (c *Context) Pick(en, ar string) string { return i18n.Pick(c.Lang, en, ar) }

// LangSwitchURL is the page URL, with Query, and lang set to the other
// language.
func (c *Context) LangSwitchURL() string {
	u := url.URL{Path: c.Path}
	q := url.Values{}
	for k, v := range c.Query {
		q[k] = v
	}
	q.Set("lang", string(c.Lang.Other()))
	u.RawQuery = q.Encode()
	return u.String()
}

/*──────────────────────────── helpers ──────────────────────────────────*/

// Ctx returns the request context.
func (c *Context) Ctx() context.Context { return c.Request.Context() }

// Asset returns the fingerprinted URL of a theme asset.
func (c *Context) Asset(p string) string {
	if c.f.Theme == nil {
		return "/assets/" + p
	}
	return c.f.Theme.Asset(p)
}

// Year is used by the footer copyright line.
func (c *Context) Year() int { return c.f.now().Year() }

// SiteName is the configured site name.
func (c *Context) SiteName() string { return c.f.SiteName }

// MarkUncacheable keeps the rendered page out of the page cache.
func (c *Context) MarkUncacheable() { c.uncacheable = true }

// Uncacheable reports whether MarkUncacheable was called.
func (c *Context) Uncacheable() bool { return c.uncacheable }

/*──────────────────────────── layout lookups ───────────────────────────*/

// Company returns the singleton company record, nil when it cannot be
// loaded.
func (c *Context) Company() *content.Company {
	if c.companyDone {
		return c.company
	}
	c.companyDone = true
	if c.f.Content == nil {
		return nil
	}
	co, err := c.f.Content.Company(c.Ctx())
	if err != nil {
		zap.L().Warn("layout company lookup failed", zap.String("path", c.Path), zap.Error(err))
		c.uncacheable = true
		return nil
	}
	c.company = co
	return co
}

// NavPages returns the published static pages for the footer.
func (c *Context) NavPages() []content.Page {
	if c.pagesDone {
		return c.pages
	}
	c.pagesDone = true
	if c.f.Content == nil {
		return nil
	}
	pages, err := c.f.Content.PublishedPages(c.Ctx())
	if err != nil {
		zap.L().Warn("layout pages lookup failed", zap.String("path", c.Path), zap.Error(err))
		c.uncacheable = true
		return nil
	}
	c.pages = pages
	return pages
}
