package gallery

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
)

var certificateColumns = []string{"id", "title", "title_ar", "issuer", "image", "position",
	"created_at", "updated_at"}

func router(t *testing.T) (chi.Router, sqlmock.Sqlmock) {
	t.Helper()
	d, mock := componenttest.New(t, "", nil)
	r := chi.NewRouter()
	New(d).Routes(r)
	return r, mock
}

func TestCertificates_JSON(t *testing.T) {
	r, mock := router(t)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM certificate ORDER BY position, id`)).
		WillReturnRows(sqlmock.NewRows(certificateColumns).
			AddRow(1, "ISO 9001", "أيزو", "TÜV", "/uploads/image/iso.png", 0, now, now))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/certificates", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, rr.Body.String(), `"ISO 9001"`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAwards_EmptyIsArray(t *testing.T) {
	r, mock := router(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM award ORDER BY position, year DESC, id`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "title_ar", "description",
			"description_ar", "year", "image", "position", "created_at", "updated_at"}))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/awards", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}
