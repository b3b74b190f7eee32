package home

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

	"github.com/yanizio/agrocms/internal/component/componenttest"
	"github.com/yanizio/agrocms/internal/i18n"
)

var (
	categoryColumns = []string{"id", "parent_id", "slug", "name", "name_ar", "description",
		"description_ar", "image", "position", "published", "created_at", "updated_at"}
	postColumns = []string{"id", "slug", "title", "title_ar", "excerpt", "excerpt_ar", "body",
		"body_ar", "cover_image", "published", "published_at", "created_at", "updated_at"}
	certificateColumns = []string{"id", "title", "title_ar", "issuer", "image", "position",
		"created_at", "updated_at"}
	companyColumns = []string{"id", "name", "name_ar", "tagline", "tagline_ar", "about", "about_ar",
		"email", "phone", "whatsapp", "facebook", "instagram", "linkedin", "logo", "updated_at"}
)

func q(s string) string { return regexp.QuoteMeta(s) }

func router(t *testing.T) (chi.Router, sqlmock.Sqlmock) {
	t.Helper()
	d, mock := componenttest.New(t, "", map[string]string{
		"home": `{{ range .Data.Categories }}<c>{{ .Slug }}</c>{{ end }}` +
			`{{ range .Data.Posts }}<p>{{ .Slug }}</p>{{ end }}` +
			`{{ range .Data.Certificates }}<i>{{ .Title }}</i>{{ end }}` +
			`{{ .Head.Metas }}`,
	})
	r := chi.NewRouter()
	r.Use(i18n.Middleware)
	New(d).Routes(r)
	return r, mock
}

func expectSections(mock sqlmock.Sqlmock) {
	now := time.Now()
	mock.ExpectQuery(q(`FROM category WHERE published = 1`)).
		WillReturnRows(sqlmock.NewRows(categoryColumns).
			AddRow(1, nil, "seeds", "Seeds", "", "", "", "", 0, true, now, now))
	mock.ExpectQuery(q(`FROM blog_post WHERE published = 1`)).
		WithArgs(sqlmock.AnyArg(), LatestCount).
		WillReturnRows(sqlmock.NewRows(postColumns).
			AddRow(4, "harvest", "Harvest", "", "", "", "b", "", "", true, now, now, now))
	mock.ExpectQuery(q(`FROM certificate ORDER BY position, id`)).
		WillReturnRows(sqlmock.NewRows(certificateColumns).
			AddRow(1, "ISO 9001", "", "TÜV", "/uploads/image/iso.png", 0, now, now))
}

func get(r http.Handler) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	return rr
}

func TestShow_RendersEverySection(t *testing.T) {
	r, mock := router(t)
	expectSections(mock)
	mock.ExpectQuery(q(`FROM company_data WHERE id = ?`)).
		WillReturnRows(sqlmock.NewRows(companyColumns).AddRow(
			1, "Agro", "", "Growing together", "", "", "", "", "", "", "", "", "", "", time.Now()))

	rr := get(r)
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "<c>seeds</c><p>harvest</p><i>ISO 9001</i>")
	assert.Contains(t, body, "Growing together")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestShow_CompanyOutageIsNotCached(t *testing.T) {
	r, mock := router(t)
	expectSections(mock)
	mock.ExpectQuery(q(`FROM company_data WHERE id = ?`)).
		WillReturnError(errors.New("connection reset"))

	rr := get(r)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "<c>seeds</c>")
	assert.NotContains(t, rr.Body.String(), "Growing together")

	// The sections come from the content cache; only the company is retried.
	mock.ExpectQuery(q(`FROM company_data WHERE id = ?`)).
		WillReturnRows(sqlmock.NewRows(companyColumns).AddRow(
			1, "Agro", "", "Growing together", "", "", "", "", "", "", "", "", "", "", time.Now()))
	rr = get(r)
	assert.Contains(t, rr.Body.String(), "Growing together")
	require.NoError(t, mock.ExpectationsWereMet())
}
