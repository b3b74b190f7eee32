package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/agrocms/internal/auth"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(Options{Secret: testSecret, TTL: time.Hour, CookieName: "s"})
	require.NoError(t, err)
	return m
}

func TestIssueAndParseRoundTrip(t *testing.T) {
	m := newManager(t)
	rr := httptest.NewRecorder()

	tok, err := m.Issue(rr, &auth.Principal{ID: 12, Email: "a@example.com", Role: auth.RoleAdmin})
	require.NoError(t, err)

	cookie := rr.Result().Cookies()[0]
	assert.Equal(t, "s", cookie.Name)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, tok, cookie.Value)

	p, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, uint64(12), p.ID)
	assert.Equal(t, auth.RoleAdmin, p.Role)
}

func TestParse_RejectsExpired(t *testing.T) {
	m := newManager(t)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, err := m.Sign(&auth.Principal{ID: 1, Role: auth.RoleEditor})
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(tok)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParse_RejectsOtherSecret(t *testing.T) {
	a := newManager(t)
	b, err := NewManager(Options{Secret: strings.Repeat("z", 32), TTL: time.Hour})
	require.NoError(t, err)

	tok, err := a.Sign(&auth.Principal{ID: 1})
	require.NoError(t, err)
	_, err = b.Parse(tok)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestMiddleware_CookieAndBearer(t *testing.T) {
	m := newManager(t)
	tok, err := m.Sign(&auth.Principal{ID: 5, Role: auth.RoleEditor})
	require.NoError(t, err)

	var got *auth.Principal
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.FromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "s", Value: tok})
	h.ServeHTTP(httptest.NewRecorder(), r)
	require.NotNil(t, got)
	assert.Equal(t, uint64(5), got.ID)

	got = nil
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+tok)
	h.ServeHTTP(httptest.NewRecorder(), r)
	require.NotNil(t, got)

	got = nil
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "s", Value: "garbage"})
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Nil(t, got)
}

func TestClear(t *testing.T) {
	m := newManager(t)
	rr := httptest.NewRecorder()
	m.Clear(rr)
	c := rr.Result().Cookies()[0]
	assert.Equal(t, -1, c.MaxAge)
	assert.Empty(t, c.Value)
}
