// internal/auth/context.go
//
// Request-scoped identity of the signed-in admin.
//
// Usage
// -----
//     // session.Middleware attaches the principal parsed from the token.
//     ctx = auth.WithPrincipal(ctx, &auth.Principal{ID: 7, Role: auth.RoleEditor})
//
//     // Downstream code retrieves it.
//     p, ok := auth.FromContext(ctx)
//     id, ok := auth.UserID(ctx)   // 7, true
//
// Notes
// -----
// • The principal is rebuilt from the token on every request; nothing is
//   read from the database on the hot path.
// • Oxford commas, two spaces after periods.

package auth

import "context"

// Roles stored in admin.role.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// Principal is what the session token asserts about the caller.
type Principal struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// principalKey is unexported to avoid context-key collisions.
type principalKey struct{}

// WithPrincipal returns a new context carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the signed-in principal, if any.
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}

// UserID extracts the admin id from ctx.  It returns (0, false) when nobody
// is signed in.
func UserID(ctx context.Context) (uint64, bool) {
	p, ok := FromContext(ctx)
	if !ok {
		return 0, false
	}
	return p.ID, true
}
