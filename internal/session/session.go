// internal/session/session.go
//
// Admin session tokens.
//
// Context
//   After a successful login the server issues an HS256 JWT carrying the
//   admin id (sub), role, and email.  Browsers receive it in an HttpOnly
//   cookie; JSON clients may send the same token as "Authorization: Bearer".
//   Nothing is stored server-side, so logout only clears the cookie and a
//   token stays valid until exp.
//
// Style
//   Two-space sentence spacing, Oxford comma, terse inline notes.
//
//------------------------------------------------------------------------------

package session

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yanizio/agrocms/internal/auth"
)

const issuer = "agrocms"

// ErrNoToken is returned by FromRequest when neither cookie nor header is set.
var ErrNoToken = errors.New("session: no token")

// Claims is the JWT payload.
type Claims struct {
	Role  string `json:"role"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Manager issues and verifies session tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
	cookie string
	secure bool
	now    func() time.Time
}

// Options configures a Manager.  Secure marks the cookie HTTPS-only.
type Options struct {
	Secret     string
	TTL        time.Duration
	CookieName string
	Secure     bool
}

// NewManager returns a Manager.  Secret must be non-empty.
func NewManager(o Options) (*Manager, error) {
	if o.Secret == "" {
		return nil, errors.New("session: empty secret")
	}
	if o.CookieName == "" {
		o.CookieName = "agro_session"
	}
	return &Manager{
		secret: []byte(o.Secret),
		ttl:    o.TTL,
		cookie: o.CookieName,
		secure: o.Secure,
		now:    time.Now,
	}, nil
}

// Sign returns a signed token for p.
func (m *Manager) Sign(p *auth.Principal) (string, error) {
	now := m.now()
	claims := Claims{
		Role:  p.Role,
		Email: p.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatUint(p.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return tok, nil
}

// Issue signs a token for p and sets the session cookie.  The token is also
// returned for JSON clients.
func (m *Manager) Issue(w http.ResponseWriter, p *auth.Principal) (string, error) {
	tok, err := m.Sign(p)
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookie,
		Value:    tok,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.ttl.Seconds()),
	})
	return tok, nil
}

// Clear expires the session cookie.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Parse verifies tok and returns the principal it asserts.
func (m *Manager) Parse(tok string) (*auth.Principal, error) {
	var c Claims
	_, err := jwt.ParseWithClaims(tok, &c,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 {
		return nil, fmt.Errorf("session: bad subject %q", c.Subject)
	}
	return &auth.Principal{ID: id, Email: c.Email, Role: c.Role}, nil
}

// FromRequest extracts and verifies the token from the bearer header or the
// session cookie, in that order.
func (m *Manager) FromRequest(r *http.Request) (*auth.Principal, error) {
	if h := r.Header.Get("Authorization"); h != "" {
		if tok, ok := strings.CutPrefix(h, "Bearer "); ok {
			return m.Parse(strings.TrimSpace(tok))
		}
	}
	if c, err := r.Cookie(m.cookie); err == nil && c.Value != "" {
		return m.Parse(c.Value)
	}
	return nil, ErrNoToken
}

// Middleware attaches the principal to the request context when a valid
// token is present.  It never rejects; acl.RequireRole does.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, err := m.FromRequest(r); err == nil {
			r = r.WithContext(auth.WithPrincipal(r.Context(), p))
		}
		next.ServeHTTP(w, r)
	})
}
