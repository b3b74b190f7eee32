package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/agrocms/internal/acl"
	authn "github.com/yanizio/agrocms/internal/auth"
	"github.com/yanizio/agrocms/internal/component"
	"github.com/yanizio/agrocms/internal/component/componenttest"
)

func setup(t *testing.T) (chi.Router, *component.Deps, sqlmock.Sqlmock) {
	t.Helper()
	d, mock := componenttest.New(t, "", nil)
	reg := component.NewRegistry()
	reg.Register(New(d))
	r := chi.NewRouter()
	r.Use(d.Sessions.Middleware)
	Mount(r, reg)
	return r, d, mock
}

func get(t *testing.T, r http.Handler, d *component.Deps, target string, p *authn.Principal) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if p != nil {
		tok, err := d.Sessions.Sign(p)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestGroup_RequiresSession(t *testing.T) {
	r, d, _ := setup(t)
	rr := get(t, r, d, "/api/admin/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))

	rr = get(t, r, d, "/api/admin/me", &authn.Principal{ID: 1, Role: "visitor"})
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestMe_ListsAreas(t *testing.T) {
	r, d, mock := setup(t)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM admin WHERE id = ?`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "password_hash", "role",
			"last_login_at", "created_at", "updated_at"}).
			AddRow(7, "ed@example.com", "Ed", "$2a$hash", "editor", nil, now, now))

	rr := get(t, r, d, "/api/admin/me", &authn.Principal{ID: 7, Role: authn.RoleEditor})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var out struct {
		Email string   `json:"email"`
		Areas []string `json:"areas"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, "ed@example.com", out.Email)
	assert.Contains(t, out.Areas, acl.AreaCatalog)
	assert.NotContains(t, out.Areas, acl.AreaCompany)
	assert.NotContains(t, rr.Body.String(), "$2a$hash")
}

func TestCheckSlug_SuggestsFreeSuffix(t *testing.T) {
	r, d, mock := setup(t)
	count := regexp.QuoteMeta(`SELECT COUNT(*) FROM product WHERE slug = ? AND id <> ?`)
	mock.ExpectQuery(count).WithArgs("npk-20", 0).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectQuery(count).WithArgs("npk-20-2", 0).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))

	rr := get(t, r, d, "/api/admin/slugs/check?type=products&slug=NPK+20", &authn.Principal{ID: 1, Role: authn.RoleAdmin})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"slug":"npk-20","available":false,"suggested":"npk-20-2"}`, rr.Body.String())
}

func TestCheckSlug_UnknownType(t *testing.T) {
	r, d, _ := setup(t)
	rr := get(t, r, d, "/api/admin/slugs/check?type=users&slug=x", &authn.Principal{ID: 1, Role: authn.RoleAdmin})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}
