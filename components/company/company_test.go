package company

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/agrocms/internal/component"
	"github.com/yanizio/agrocms/internal/component/componenttest"
)

var documentColumns = []string{"id", "slug", "title", "title_ar", "file_path", "content_type",
	"size_bytes", "downloads", "created_at", "updated_at"}

func setup(t *testing.T) (chi.Router, *component.Deps, sqlmock.Sqlmock) {
	t.Helper()
	d, mock := componenttest.New(t, "", nil)
	r := chi.NewRouter()
	New(d).Routes(r)
	return r, d, mock
}

func expectDocument(mock sqlmock.Sqlmock, file string) {
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM document WHERE slug = ?`)).
		WithArgs("catalogue").
		WillReturnRows(sqlmock.NewRows(documentColumns).
			AddRow(3, "catalogue", "Catalogue", "", file, "application/pdf", 9, 10, now, now))
}

func expectCount(mock sqlmock.Sqlmock) {
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE document SET downloads = downloads + 1`)).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
}

func writeCatalogue(t *testing.T, d *component.Deps) {
	t.Helper()
	full := filepath.Join(d.Uploads.Root(), "document", "catalogue-ab12.pdf")
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte("%PDF-1.4\n"), 0o644))
}

func TestDownload_StreamsAndCounts(t *testing.T) {
	r, d, mock := setup(t)
	writeCatalogue(t, d)
	expectDocument(mock, "document/catalogue-ab12.pdf")
	expectCount(mock)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/documents/catalogue/download", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "%PDF-1.4\n", rr.Body.String())
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), `filename="catalogue.pdf"`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDownload_PartialAndHeadAreNotCounted(t *testing.T) {
	r, d, mock := setup(t)
	writeCatalogue(t, d)

	expectDocument(mock, "document/catalogue-ab12.pdf")
	req := httptest.NewRequest(http.MethodGet, "/documents/catalogue/download", nil)
	req.Header.Set("Range", "bytes=0-3")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusPartialContent, rr.Code)
	assert.Equal(t, "%PDF", rr.Body.String())

	expectDocument(mock, "document/catalogue-ab12.pdf")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodHead, "/documents/catalogue/download", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Body.String())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFullDownload(t *testing.T) {
	cases := []struct {
		method, header, value string
		want                  bool
	}{
		{http.MethodGet, "", "", true},
		{http.MethodHead, "", "", false},
		{http.MethodGet, "Range", "bytes=0-99", false},
		{http.MethodGet, "If-None-Match", `"x"`, false},
		{http.MethodGet, "If-Modified-Since", "Sat, 01 Mar 2025 12:00:00 GMT", false},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(tc.method, "/documents/catalogue/download", nil)
		if tc.header != "" {
			r.Header.Set(tc.header, tc.value)
		}
		assert.Equal(t, tc.want, fullDownload(r), "%s %s", tc.method, tc.header)
	}
}

func TestDownload_MissingFileIs404(t *testing.T) {
	r, _, mock := setup(t)
	expectDocument(mock, "document/gone.pdf")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/documents/catalogue/download", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "error 404")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHeadquarters_EmptyIsArray(t *testing.T) {
	r, _, mock := setup(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM headquarter`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/headquarters", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}
