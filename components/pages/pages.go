// components/pages/pages.go
//
// Static pages (about, terms, privacy, ...) at /pages/{slug}.
package pages

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/agrocms/internal/acl"
	"github.com/yanizio/agrocms/internal/component"
	"github.com/yanizio/agrocms/internal/content"
)

var (
	_ component.Component   = (*Component)(nil)
	_ component.AdminRouter = (*Component)(nil)
)

// Component implements static pages.
type Component struct{ d *component.Deps }

// New returns the pages component.
func New(d *component.Deps) *Component { return &Component{d: d} }

// Name returns the canonical component key.
func (c *Component) Name() string { return "pages" }

// Routes registers GET /pages/{slug}.
func (c *Component) Routes(r chi.Router) { r.Get("/pages/{slug}", c.show) }

// AdminRoutes registers /pages CRUD.
func (c *Component) AdminRoutes(r chi.Router) {
	component.Resource[content.Page, content.PageInput]{
		Area:   acl.AreaPages,
		List:   func(r *http.Request) ([]content.Page, error) { return c.d.Content.Pages(r.Context()) },
		Get:    c.d.Content.Page,
		Create: c.d.Content.CreatePage,
		Update: c.d.Content.UpdatePage,
		Delete: c.d.Content.DeletePage,
	}.Mount(r, "/pages")
}

func (c *Component) show(w http.ResponseWriter, r *http.Request) {
	rctx := c.d.Site.New(r)
	slug := chi.URLParam(r, "slug")
	err := c.d.View.Page(w, rctx, "page", func(ctx context.Context) (any, error) {
		p, err := c.d.Content.PageBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		rctx.Head.SetTitle(rctx.Pick(p.Title, p.TitleAr))
		return p, nil
	}, content.TagPages)
	if err != nil {
		c.d.View.Error(w, rctx, err)
	}
}
