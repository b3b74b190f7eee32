// components/home/home.go
//
// Landing page: company intro, top-level categories, latest posts, and
// certificates.  The company block comes from the layout's .Company
// lookup, so it is not loaded here.
package home

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/agrocms/internal/component"
	"github.com/yanizio/agrocms/internal/content"
)

var _ component.Component = (*Component)(nil)

// LatestCount is how many posts the home page shows.
const LatestCount = 3

// Component serves "/".
type Component struct{ d *component.Deps }

// New returns the home component.
func New(d *component.Deps) *Component { return &Component{d: d} }

// Name returns the canonical component key.
func (c *Component) Name() string { return "home" }

// Routes registers GET /.
func (c *Component) Routes(r chi.Router) { r.Get("/", c.show) }

// Data is the page dot's .Data.
type Data struct {
	Categories   []*content.Category
	Posts        []content.Post
	Certificates []content.Certificate
}

func (c *Component) show(w http.ResponseWriter, r *http.Request) {
	rctx := c.d.Site.New(r)
	err := c.d.View.Page(w, rctx, "home", func(ctx context.Context) (any, error) {
		var (
			d   Data
			err error
		)
		if d.Categories, err = c.d.Content.CategoryTree(ctx); err != nil {
			return nil, err
		}
		if d.Posts, err = c.d.Content.LatestPosts(ctx, LatestCount); err != nil {
			return nil, err
		}
		if d.Certificates, err = c.d.Content.Certificates(ctx); err != nil {
			return nil, err
		}
		rctx.Head.SetTitle(rctx.T("home.title"))
		if co := rctx.Company(); co != nil {
			rctx.Head.Description(rctx.Pick(co.Tagline, co.TaglineAr))
		}
		return d, nil
	}, content.TagCategories, content.TagBlog, content.TagCertificates, content.TagCompany)
	if err != nil {
		c.d.View.Error(w, rctx, err)
	}
}
