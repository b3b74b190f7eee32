// components/blog/blog.go
//
// Public blog and its admin CRUD.
//
// Only published posts whose published_at has passed are visible; a
// missing or hidden slug is a 404 page, never a 500.
package blog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/agrocms/internal/acl"
	"github.com/yanizio/agrocms/internal/component"
	"github.com/yanizio/agrocms/internal/content"
)

var (
	_ component.Component   = (*Component)(nil)
	_ component.AdminRouter = (*Component)(nil)
)

// Component implements the blog.
type Component struct{ d *component.Deps }

// New returns the blog component and registers the "blog/latest" widget.
func New(d *component.Deps) *Component {
	c := &Component{d: d}
	d.Widgets.Register(&latestWidget{c: c})
	return c
}

// Name returns the canonical component key.
func (c *Component) Name() string { return "blog" }

// Routes registers GET /blog and GET /blog/{slug}.
func (c *Component) Routes(r chi.Router) {
	r.Get("/blog", c.list)
	r.Get("/blog/{slug}", c.show)
}

// AdminRoutes registers /posts CRUD.
func (c *Component) AdminRoutes(r chi.Router) {
	component.Resource[content.Post, content.PostInput]{
		Area:   acl.AreaBlog,
		List:   func(r *http.Request) ([]content.Post, error) { return c.d.Content.Posts(r.Context()) },
		Get:    c.d.Content.Post,
		Create: c.d.Content.CreatePost,
		Update: c.d.Content.UpdatePost,
		Delete: c.d.Content.DeletePost,
	}.Mount(r, "/posts")
}

func (c *Component) list(w http.ResponseWriter, r *http.Request) {
	page, ok := pageParam(r.URL.Query().Get("page"))
	if !ok {
		c.d.View.Error(w, c.d.Site.New(r), content.ErrNotFound)
		return
	}
	rctx := c.d.Site.New(r, "page")
	err := c.d.View.Page(w, rctx, "blog/list", func(ctx context.Context) (any, error) {
		pp, err := c.d.Content.PublishedPosts(ctx, page)
		if err != nil {
			return nil, err
		}
		rctx.Head.SetTitle(rctx.T("blog.title"))
		return pp, nil
	}, content.TagBlog)
	if err != nil {
		c.d.View.Error(w, rctx, err)
	}
}

func (c *Component) show(w http.ResponseWriter, r *http.Request) {
	rctx := c.d.Site.New(r)
	slug := chi.URLParam(r, "slug")
	err := c.d.View.Page(w, rctx, "blog/post", func(ctx context.Context) (any, error) {
		p, err := c.d.Content.PostBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		rctx.Head.SetTitle(rctx.Pick(p.Title, p.TitleAr))
		rctx.Head.Description(rctx.Pick(p.Excerpt, p.ExcerptAr))
		return p, nil
	}, content.TagBlog)
	if err != nil {
		c.d.View.Error(w, rctx, err)
	}
}

// pageParam accepts an empty value (page 1) or a canonical decimal in
// 1..MaxPostPage.  "01" or "+2" are rejected so each page has one URL.
func pageParam(raw string) (int, bool) {
	if raw == "" {
		return 1, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > content.MaxPostPage || strconv.Itoa(n) != raw {
		return 0, false
	}
	return n, true
}
