package catalog

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/agrocms/internal/component"
	"github.com/yanizio/agrocms/internal/component/componenttest"
	"github.com/yanizio/agrocms/internal/i18n"
)

var (
	categoryColumns = []string{"id", "parent_id", "slug", "name", "name_ar", "description",
		"description_ar", "image", "position", "published", "created_at", "updated_at"}
	productColumns = []string{"id", "category_id", "slug", "name", "name_ar", "summary",
		"summary_ar", "description", "description_ar", "image", "composition", "usage_info",
		"position", "published", "created_at", "updated_at"}
	sectionColumns = []string{"id", "product_id", "position", "title", "title_ar", "body", "body_ar"}
)

func q(s string) string { return regexp.QuoteMeta(s) }

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func treeRows() *sqlmock.Rows {
	return sqlmock.NewRows(categoryColumns).
		AddRow(1, nil, "fertilizers", "Fertilizers", "أسمدة", "", "", "", 0, true, now, now).
		AddRow(2, 1, "liquid", "Liquid", "", "", "", "", 0, true, now, now)
}

func productRow(rows *sqlmock.Rows, id, catID uint64, slug, name string) *sqlmock.Rows {
	return rows.AddRow(id, catID, slug, name, "", "", "", "", "", "", nil, nil, 0, true, now, now)
}

func router(t *testing.T, pages map[string]string) (chi.Router, *component.Deps, sqlmock.Sqlmock) {
	t.Helper()
	if pages == nil {
		pages = map[string]string{}
	}
	defaults := map[string]string{
		"catalog/products": `{{ .Data.Category }}|{{ range .Data.Products }}<li>{{ .Slug }}</li>{{ end }}`,
		"catalog/product":  `<h1>{{ .Pick .Data.Product.Name .Data.Product.NameAr }}</h1>{{ range .Data.Product.Sections }}<h2>{{ .Title }}</h2>{{ end }}`,
		"catalog/category": `<h1>{{ .Data.Category.Name }}</h1>{{ range .Data.Children }}<b>{{ .Slug }}</b>{{ end }}`,
	}
	for k, v := range defaults {
		if _, ok := pages[k]; !ok {
			pages[k] = v
		}
	}
	d, mock := componenttest.New(t, "", pages)
	r := chi.NewRouter()
	r.Use(i18n.Middleware)
	New(d).Routes(r)
	return r, d, mock
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

/*──────────────────────────── list ────────────────────────────────────────*/

func TestList_FiltersByCategoryAndIgnoresOtherParams(t *testing.T) {
	r, _, mock := router(t, nil)
	mock.ExpectQuery(q(`FROM category WHERE published = 1`)).WillReturnRows(treeRows())
	mock.ExpectQuery(q(`c.slug = ?`)).WithArgs("liquid").
		WillReturnRows(productRow(sqlmock.NewRows(productColumns), 5, 2, "npk-20", "NPK 20"))

	rr := get(r, "/products?category=liquid&utm_source=mail")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "liquid|<li>npk-20</li>")

	// Same declared parameters, different junk: served from the page cache.
	rr = get(r, "/products?fbclid=xyz&category=liquid")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "<li>npk-20</li>")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_UnknownCategoryIs404(t *testing.T) {
	r, d, mock := router(t, nil)
	mock.ExpectQuery(q(`FROM category WHERE published = 1`)).WillReturnRows(treeRows())

	before := d.Cache.Len()
	rr := get(r, "/products?category=no-such-thing")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "error 404")
	// Only the category tree was stored, not the error page.
	assert.Equal(t, before+1, d.Cache.Len())
	require.NoError(t, mock.ExpectationsWereMet())
}

/*──────────────────────────── detail pages ────────────────────────────────*/

func TestProduct_ShowsSectionsInOrder(t *testing.T) {
	r, _, mock := router(t, nil)
	mock.ExpectQuery(q(`FROM product WHERE slug = ? AND published = 1`)).WithArgs("npk-20").
		WillReturnRows(productRow(sqlmock.NewRows(productColumns), 5, 2, "npk-20", "NPK 20"))
	mock.ExpectQuery(q(`FROM product_section WHERE product_id = ?`)).WithArgs(5).
		WillReturnRows(sqlmock.NewRows(sectionColumns).
			AddRow(1, 5, 0, "Benefits", "", "b", "").
			AddRow(2, 5, 1, "Storage", "", "s", ""))
	mock.ExpectQuery(q(`FROM category WHERE id = ?`)).WithArgs(2).
		WillReturnRows(sqlmock.NewRows(categoryColumns).
			AddRow(2, 1, "liquid", "Liquid", "", "", "", "", 0, true, now, now))

	rr := get(r, "/products/npk-20")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "<h1>NPK 20</h1><h2>Benefits</h2><h2>Storage</h2>")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProduct_MissingIs404(t *testing.T) {
	r, _, mock := router(t, nil)
	mock.ExpectQuery(q(`FROM product WHERE slug = ? AND published = 1`)).WithArgs("gone").
		WillReturnRows(sqlmock.NewRows(productColumns))

	rr := get(r, "/products/gone")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategory_ListsChildren(t *testing.T) {
	r, _, mock := router(t, nil)
	mock.ExpectQuery(q(`FROM category WHERE slug = ? AND published = 1`)).WithArgs("fertilizers").
		WillReturnRows(sqlmock.NewRows(categoryColumns).
			AddRow(1, nil, "fertilizers", "Fertilizers", "", "", "", "", 0, true, now, now))
	mock.ExpectQuery(q(`FROM category WHERE parent_id = ? AND published = 1`)).WithArgs(1).
		WillReturnRows(sqlmock.NewRows(categoryColumns).
			AddRow(2, 1, "liquid", "Liquid", "", "", "", "", 0, true, now, now))
	mock.ExpectQuery(q(`FROM product WHERE category_id = ? AND published = 1`)).WithArgs(1).
		WillReturnRows(sqlmock.NewRows(productColumns))

	rr := get(r, "/categories/fertilizers")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "<h1>Fertilizers</h1><b>liquid</b>")
	require.NoError(t, mock.ExpectationsWereMet())
}

/*──────────────────────────── menu widget ─────────────────────────────────*/

func TestMenuWidget_FailureIsNotCached(t *testing.T) {
	r, d, mock := router(t, map[string]string{
		"shell": `[{{ widget . "catalog/menu" }}]`,
		"partials/widget/catalog-menu": `{{ define "widget/catalog-menu" }}` +
			`{{ range .Tree }}<a>{{ .Slug }}</a>{{ end }}{{ end }}`,
	})
	r.Get("/shell", func(w http.ResponseWriter, req *http.Request) {
		rctx := d.Site.New(req)
		if err := d.View.Page(w, rctx, "shell", nil); err != nil {
			d.View.Error(w, rctx, err)
		}
	})

	mock.ExpectQuery(q(`FROM category WHERE published = 1`)).
		WillReturnError(errors.New("connection reset"))
	rr := get(r, "/shell")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "[]")

	// The outage is over: the next request queries again and renders the menu.
	mock.ExpectQuery(q(`FROM category WHERE published = 1`)).WillReturnRows(treeRows())
	rr = get(r, "/shell")
	assert.Contains(t, rr.Body.String(), "[<a>fertilizers</a>]")

	// Healthy renders are cached as usual.
	rr = get(r, "/shell")
	assert.Contains(t, rr.Body.String(), "[<a>fertilizers</a>]")
	require.NoError(t, mock.ExpectationsWereMet())
}
