package careers

import (
	"bytes"
	"mime/multipart"
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

var jobColumns = []string{"id", "slug", "title", "title_ar", "location", "location_ar", "employment_type",
	"description", "description_ar", "published", "closes_at", "created_at", "updated_at"}

func router(t *testing.T) (chi.Router, sqlmock.Sqlmock) {
	t.Helper()
	d, mock := componenttest.New(t, "../..", map[string]string{
		"careers/list": `{{ range .Data }}<li>{{ .Slug }}</li>{{ end }}`,
		"careers/job": `<h1>{{ .Pick .Data.Job.Title .Data.Job.TitleAr }}</h1>` +
			`{{ widget $ "careers/apply" (dict "prefill" .Data.Form.Prefill "errors" .Data.Form.Errors) }}`,
		"careers/thanks": `thanks {{ .Data.ID }}`,
	})
	r := chi.NewRouter()
	r.Use(i18n.Middleware)
	New(d).Routes(r)
	return r, mock
}

func jobRow(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(jobColumns).
		AddRow(4, "agronomist", "Field agronomist", "مهندس زراعي", "Riyadh", "", "full-time",
			"desc", "", true, nil, now, now)
}

func TestList_OpenJobs(t *testing.T) {
	r, mock := router(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM job_offer`)).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(jobRow(time.Now()))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/careers", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "<li>agronomist</li>")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestShow_RendersApplyForm(t *testing.T) {
	r, mock := router(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM job_offer`)).
		WithArgs("agronomist", sqlmock.AnyArg()).
		WillReturnRows(jobRow(time.Now()))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/careers/agronomist", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "<h1>Field agronomist</h1>")
	assert.Contains(t, rr.Body.String(), `name="csrf_token"`)
	assert.Contains(t, rr.Body.String(), `type="file"`)
}

func TestApply_InvalidRedisplaysWithInput(t *testing.T) {
	r, mock := router(t)
	d, _ := componenttest.New(t, "../..", nil)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM job_offer`)).
		WithArgs("agronomist", sqlmock.AnyArg()).
		WillReturnRows(jobRow(time.Now()))

	// Missing name and CV; no row may be written.
	v := componenttest.FormValues(t, d, FormID, map[string]string{
		"email": "ann@example.com",
		"phone": "+966 1 234",
	})
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, componenttest.PostForm("/careers/agronomist/apply", v))

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), `value="ann@example.com"`)
	assert.Contains(t, rr.Body.String(), "has-error")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApply_OversizedBodyIs413(t *testing.T) {
	r, mock := router(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM job_offer`)).
		WithArgs("agronomist", sqlmock.AnyArg()).
		WillReturnRows(jobRow(time.Now()))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("full_name", "Ann")
	fw, _ := mw.CreateFormFile("cv", "cv.pdf")
	_, _ = fw.Write(bytes.Repeat([]byte("x"), 3<<20))
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/careers/agronomist/apply", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.Contains(t, rr.Body.String(), "The file is too large.")
	require.NoError(t, mock.ExpectationsWereMet())
}
