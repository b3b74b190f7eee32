package pages

import (
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

var pageColumns = []string{"id", "slug", "title", "title_ar", "body", "body_ar", "published",
	"created_at", "updated_at"}

func router(t *testing.T) (chi.Router, sqlmock.Sqlmock) {
	t.Helper()
	d, mock := componenttest.New(t, "", map[string]string{
		"page": `<h1>{{ .Pick .Data.Title .Data.TitleAr }}</h1>`,
	})
	r := chi.NewRouter()
	r.Use(i18n.Middleware)
	New(d).Routes(r)
	return r, mock
}

func TestShow_ArabicTitle(t *testing.T) {
	r, mock := router(t)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM page`)).WithArgs("about").
		WillReturnRows(sqlmock.NewRows(pageColumns).
			AddRow(1, "about", "About us", "من نحن", "b", "", true, now, now))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/pages/about?lang=ar", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "<h1>من نحن</h1>")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestShow_UnknownIs404(t *testing.T) {
	r, mock := router(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM page`)).WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(pageColumns))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/pages/nope", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "error 404")
	require.NoError(t, mock.ExpectationsWereMet())
}
