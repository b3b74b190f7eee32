package contact

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"github.com/yanizio/agrocms/internal/component"
	"github.com/yanizio/agrocms/internal/component/componenttest"
	"github.com/yanizio/agrocms/internal/content"
	"github.com/yanizio/agrocms/internal/i18n"
)

var hqColumns = []string{"id", "name", "name_ar", "address", "address_ar", "phone", "email", "map_url",
	"latitude", "longitude", "is_primary", "position", "created_at", "updated_at"}

func setup(t *testing.T) (chi.Router, *component.Deps, sqlmock.Sqlmock) {
	t.Helper()
	d, mock := componenttest.New(t, "../..", map[string]string{
		"contact/index": `{{ widget $ "contact/message" (dict "prefill" .Data.Form.Prefill "errors" .Data.Form.Errors) }}`,
		"contact/thanks": `thanks {{ .Data }}`,
	})
	r := chi.NewRouter()
	r.Use(i18n.Middleware)
	New(d).Routes(r)
	return r, d, mock
}

func TestSubmit_StoresOnceAndThanks(t *testing.T) {
	r, d, mock := setup(t)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO contact_submission`)).
		WithArgs("Ann", "ann@example.com", "", "", "Fertiliser prices", "Please send the price list.",
			"203.0.113.9", "", "").
		WillReturnResult(sqlmock.NewResult(42, 1))

	v := componenttest.FormValues(t, d, FormID, map[string]string{
		"name":    "Ann",
		"email":   "ann@example.com",
		"subject": "Fertiliser prices",
		"message": "Please send the price list.",
	})
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, componenttest.PostForm("/contact", v))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "thanks 42")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmit_InvalidStoresNothing(t *testing.T) {
	r, d, mock := setup(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM headquarter`)).
		WillReturnRows(sqlmock.NewRows(hqColumns))

	v := componenttest.FormValues(t, d, FormID, map[string]string{
		"name":    "Ann",
		"email":   "not-an-email",
		"subject": "Hi",
		"message": "short",
	})
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, componenttest.PostForm("/contact", v))

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), `value="Ann"`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmit_BadTokenRejected(t *testing.T) {
	r, d, mock := setup(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM headquarter`)).
		WillReturnRows(sqlmock.NewRows(hqColumns))

	v := componenttest.FormValues(t, d, FormID, map[string]string{
		"name": "Ann", "email": "ann@example.com", "subject": "x", "message": "Please call me back.",
	})
	v.Set("csrf_token", "forged")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, componenttest.PostForm("/contact", v))

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkbook(t *testing.T) {
	body, err := workbook([]content.Contact{{ID: 7, Name: "Ann", Email: "ann@example.com", Subject: "Hi"}})
	require.NoError(t, err)

	f, err := xlsx.OpenBinary(body)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)
	sh := f.Sheets[0]
	require.Len(t, sh.Rows, 2)
	assert.Equal(t, "ID", sh.Rows[0].Cells[0].String())
	assert.Equal(t, "Ann", sh.Rows[1].Cells[2].String())
}

func TestSubmit_OversizedBodyIs413(t *testing.T) {
	r, d, mock := setup(t)
	v := componenttest.FormValues(t, d, FormID, map[string]string{
		"name":    "Ann",
		"email":   "ann@example.com",
		"message": strings.Repeat("spam ", 20000),
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, componenttest.PostForm("/contact", v))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.Contains(t, rr.Body.String(), "error 413")
	require.NoError(t, mock.ExpectationsWereMet())
}
