// components/catalog/catalog.go
//
// Product catalog: category tree, category pages, and product detail.
//
// Routes
// ------
//   GET /products               all products, or ?category=<slug> (unknown → 404)
//   GET /products/{slug}        product detail with sections and tables
//   GET /categories/{slug}      category with children and products
//
// Admin (under /api/admin)
// ------------------------
//   /categories   CRUD; deleting a parent with children is 409
//   /products     CRUD; GET / takes ?category=<id>
//
// The "catalog/menu" widget renders the category tree for the header.

package catalog

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/agrocms/internal/acl"
	"github.com/yanizio/agrocms/internal/api"
	"github.com/yanizio/agrocms/internal/component"
	"github.com/yanizio/agrocms/internal/content"
)

var (
	_ component.Component   = (*Component)(nil)
	_ component.AdminRouter = (*Component)(nil)
)

// Component implements the catalog.
type Component struct{ d *component.Deps }

// New returns the catalog component and registers its widget.
func New(d *component.Deps) *Component {
	c := &Component{d: d}
	d.Widgets.Register(&menuWidget{c: c})
	return c
}

// Name returns the canonical component key.
func (c *Component) Name() string { return "catalog" }

// Routes registers the public pages.
func (c *Component) Routes(r chi.Router) {
	r.Get("/products", c.list)
	r.Get("/products/{slug}", c.product)
	r.Get("/categories/{slug}", c.category)
}

// AdminRoutes registers category and product CRUD.
func (c *Component) AdminRoutes(r chi.Router) {
	component.Resource[content.Category, content.CategoryInput]{
		Area:   acl.AreaCatalog,
		List:   func(r *http.Request) ([]content.Category, error) { return c.d.Content.Categories(r.Context()) },
		Get:    c.d.Content.Category,
		Create: c.d.Content.CreateCategory,
		Update: c.d.Content.UpdateCategory,
		Delete: c.d.Content.DeleteCategory,
	}.Mount(r, "/categories")

	component.Resource[content.Product, content.ProductInput]{
		Area: acl.AreaCatalog,
		List: func(r *http.Request) ([]content.Product, error) {
			var catID uint64
			if s := r.URL.Query().Get("category"); s != "" {
				id, err := api.IDParam(s)
				if err != nil {
					return nil, err
				}
				catID = id
			}
			return c.d.Content.AdminProducts(r.Context(), catID)
		},
		Get:    c.d.Content.Product,
		Create: c.d.Content.CreateProduct,
		Update: c.d.Content.UpdateProduct,
		Delete: c.d.Content.DeleteProduct,
	}.Mount(r, "/products")
}

/*──────────────────────────── pages ────────────────────────────────────*/

// ListData backs catalog/products.
type ListData struct {
	Category   string
	Categories []*content.Category
	Products   []content.Product
}

func (c *Component) list(w http.ResponseWriter, r *http.Request) {
	rctx := c.d.Site.New(r, "category")
	slug := rctx.Query.Get("category")
	err := c.d.View.Page(w, rctx, "catalog/products", func(ctx context.Context) (any, error) {
		tree, err := c.d.Content.CategoryTree(ctx)
		if err != nil {
			return nil, err
		}
		if slug != "" && !inTree(tree, slug) {
			return nil, content.ErrNotFound
		}
		products, err := c.d.Content.Products(ctx, slug)
		if err != nil {
			return nil, err
		}
		rctx.Head.SetTitle(rctx.T("products.title"))
		return ListData{Category: slug, Categories: tree, Products: products}, nil
	}, content.TagProducts, content.TagCategories)
	if err != nil {
		c.d.View.Error(w, rctx, err)
	}
}

// inTree reports whether slug names a published category in tree.
func inTree(tree []*content.Category, slug string) bool {
	for _, cat := range tree {
		if cat.Slug == slug || inTree(cat.Children, slug) {
			return true
		}
	}
	return false
}

func (c *Component) category(w http.ResponseWriter, r *http.Request) {
	rctx := c.d.Site.New(r)
	slug := chi.URLParam(r, "slug")
	err := c.d.View.Page(w, rctx, "catalog/category", func(ctx context.Context) (any, error) {
		v, err := c.d.Content.CategoryBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		rctx.Head.SetTitle(rctx.Pick(v.Category.Name, v.Category.NameAr))
		rctx.Head.Description(rctx.Pick(v.Category.Description, v.Category.DescriptionAr))
		return v, nil
	}, content.TagCategories, content.TagProducts)
	if err != nil {
		c.d.View.Error(w, rctx, err)
	}
}

func (c *Component) product(w http.ResponseWriter, r *http.Request) {
	rctx := c.d.Site.New(r)
	slug := chi.URLParam(r, "slug")
	err := c.d.View.Page(w, rctx, "catalog/product", func(ctx context.Context) (any, error) {
		v, err := c.d.Content.ProductBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		rctx.Head.SetTitle(rctx.Pick(v.Product.Name, v.Product.NameAr))
		rctx.Head.Description(rctx.Pick(v.Product.Summary, v.Product.SummaryAr))
		return v, nil
	}, content.TagProducts, content.TagCategories)
	if err != nil {
		c.d.View.Error(w, rctx, err)
	}
}
