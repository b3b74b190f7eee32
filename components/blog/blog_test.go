package blog

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
	"github.com/yanizio/agrocms/internal/content"
	"github.com/yanizio/agrocms/internal/i18n"
)

var postColumns = []string{"id", "slug", "title", "title_ar", "excerpt", "excerpt_ar", "body",
	"body_ar", "cover_image", "published", "published_at", "created_at", "updated_at"}

func router(t *testing.T) (chi.Router, sqlmock.Sqlmock) {
	t.Helper()
	d, mock := componenttest.New(t, "", map[string]string{
		"blog/post": `<h1>{{ .Pick .Data.Title .Data.TitleAr }}</h1>`,
		"blog/list": `{{ range .Data.Posts }}<li>{{ .Slug }}</li>{{ end }}`,
	})
	r := chi.NewRouter()
	r.Use(i18n.Middleware)
	New(d).Routes(r)
	return r, mock
}

func TestShow_MissingSlugIs404(t *testing.T) {
	r, mock := router(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM blog_post WHERE slug = ?`)).
		WithArgs("no-such-post", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(postColumns))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/blog/no-such-post", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "error 404")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestShow_ArabicFallsBackAndCaches(t *testing.T) {
	r, mock := router(t)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM blog_post WHERE slug = ?`)).
		WithArgs("soil", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(postColumns).
			AddRow(1, "soil", "Soil health", "صحة التربة", "", "", "b", "", "", true, now, now, now))

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/blog/soil?lang=ar", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "<h1>صحة التربة</h1>")
		assert.Contains(t, rr.Body.String(), `lang="ar"`)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPageParam(t *testing.T) {
	cases := map[string]struct {
		page int
		ok   bool
	}{
		"":     {1, true},
		"2":    {2, true},
		"1000": {1000, true},
		"01":   {0, false},
		"+2":   {0, false},
		"0":    {0, false},
		"-1":   {0, false},
		"1001": {0, false},
		"abc":  {0, false},
		"1e3":  {0, false},
	}
	for raw, want := range cases {
		page, ok := pageParam(raw)
		assert.Equal(t, want.ok, ok, raw)
		assert.Equal(t, want.page, page, raw)
	}
}

func TestList_BadPagesAre404WithoutQuery(t *testing.T) {
	r, mock := router(t)
	for _, raw := range []string{"0", "01", "1001", "abc", "9223372036854775807"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/blog?page="+raw, nil))
		assert.Equal(t, http.StatusNotFound, rr.Code, raw)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_PastLastPageIs404(t *testing.T) {
	r, mock := router(t)
	mock.ExpectQuery(regexp.QuoteMeta(`LIMIT ? OFFSET ?`)).
		WithArgs(sqlmock.AnyArg(), content.PostsPerPage+1, 2*content.PostsPerPage).
		WillReturnRows(sqlmock.NewRows(postColumns))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/blog?page=3&ref=newsletter", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
