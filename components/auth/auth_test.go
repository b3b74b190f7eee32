package auth

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yanizio/agrocms/internal/component"
	"github.com/yanizio/agrocms/internal/component/componenttest"
	"github.com/yanizio/agrocms/internal/i18n"
)

var adminColumns = []string{"id", "email", "name", "password_hash", "role", "last_login_at",
	"created_at", "updated_at"}

const loginPage = `{{ widget $ "auth/login" (dict "action" .Data.Action "prefill" .Data.Form.Prefill "errors" .Data.Form.Errors) }}`

func setup(t *testing.T) (chi.Router, *component.Deps, sqlmock.Sqlmock) {
	t.Helper()
	d, mock := componenttest.New(t, "../..", map[string]string{"login": loginPage})
	r := chi.NewRouter()
	r.Use(i18n.Middleware)
	New(d).Routes(r)
	return r, d, mock
}

func expectAdmin(t *testing.T, mock sqlmock.Sqlmock, email string, found bool) {
	t.Helper()
	rows := sqlmock.NewRows(adminColumns)
	if found {
		hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse-battery"), bcrypt.MinCost)
		require.NoError(t, err)
		now := time.Now()
		rows.AddRow(5, email, "Office", string(hash), "editor", nil, now, now)
	}
	mock.ExpectQuery(regexp.QuoteMeta(`FROM admin WHERE email = ?`)).WithArgs(email).WillReturnRows(rows)
}

// hidden strips the per-render token and timestamp so pages can be compared.
var hidden = regexp.MustCompile(`name="(csrf_token|render_ts)" value="[^"]*"`)

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	r, d, mock := setup(t)
	expectAdmin(t, mock, "ghost@example.com", false)
	expectAdmin(t, mock, "office@example.com", true)

	post := func(email, pw string) *httptest.ResponseRecorder {
		v := componenttest.FormValues(t, d, FormID, map[string]string{"email": email, "password": pw})
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, componenttest.PostForm("/login", v))
		return rr
	}
	unknown := post("ghost@example.com", "whatever-123")
	wrong := post("office@example.com", "wrong-password")

	for _, rr := range []*httptest.ResponseRecorder{unknown, wrong} {
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Empty(t, rr.Result().Cookies())
		assert.Contains(t, rr.Body.String(), "Invalid email or password.")
		assert.NotContains(t, rr.Body.String(), "whatever-123")
	}
	a := hidden.ReplaceAllString(unknown.Body.String(), "")
	b := hidden.ReplaceAllString(wrong.Body.String(), "")
	assert.Equal(t, strings.Replace(a, "ghost@example.com", "EMAIL", 1), strings.Replace(b, "office@example.com", "EMAIL", 1))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAPILogin_SameErrorNoCookie(t *testing.T) {
	r, _, mock := setup(t)
	expectAdmin(t, mock, "ghost@example.com", false)
	expectAdmin(t, mock, "office@example.com", true)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		return rr
	}
	a := post(`{"email":"ghost@example.com","password":"whatever-123"}`)
	b := post(`{"email":"office@example.com","password":"wrong-password"}`)

	assert.Equal(t, http.StatusUnauthorized, a.Code)
	assert.Equal(t, a.Code, b.Code)
	assert.Equal(t, a.Body.String(), b.Body.String())
	assert.Empty(t, a.Result().Cookies())
	assert.Empty(t, b.Result().Cookies())
}

func TestAPILogin_Success(t *testing.T) {
	r, d, mock := setup(t)
	expectAdmin(t, mock, "office@example.com", true)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE admin SET last_login_at = ?`)).
		WithArgs(sqlmock.AnyArg(), 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"email":"office@example.com","password":"correct-horse-battery"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)
	assert.NotContains(t, rr.Body.String(), "password_hash")

	p, err := d.Sessions.Parse(cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), p.ID)
	assert.Equal(t, "editor", p.Role)
}

func TestSafeNext(t *testing.T) {
	cases := map[string]string{
		"":                     "/",
		"/api/admin/dashboard": "/api/admin/dashboard",
		"//evil.example":       "/",
		"https://evil.example": "/",
		"/\\evil":              "/",
		"relative":             "/",
	}
	for in, want := range cases {
		assert.Equal(t, want, safeNext(in), in)
	}
}
