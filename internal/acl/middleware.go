// internal/acl/middleware.go
//
// Chi middleware helpers that enforce RBAC.

package acl

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/yanizio/agrocms/internal/api"
	"github.com/yanizio/agrocms/internal/auth"
)

// RequireRole ensures the current principal has ANY of the supplied roles.
func RequireRole(names ...string) func(http.Handler) http.Handler {
	if len(names) == 0 {
		panic("acl.RequireRole: at least one role name must be supplied")
	}
	allowSet := make(map[string]struct{}, len(names))
	for _, n := range names {
		allowSet[n] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := auth.FromContext(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "sign in required")
				return
			}
			if _, ok := allowSet[p.Role]; !ok {
				zap.L().Info("acl role denied",
					zap.Uint64("admin", p.ID), zap.String("role", p.Role), zap.String("path", r.URL.Path))
				api.Fail(w, http.StatusForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermission verifies that the principal's role allows area/action
// under the static Policy.
func RequirePermission(area, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := auth.FromContext(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "sign in required")
				return
			}
			if !RoleAllowed(p.Role, area, action) {
				zap.L().Info("acl permission denied",
					zap.Uint64("admin", p.ID), zap.String("role", p.Role),
					zap.String("area", area), zap.String("action", action))
				api.Fail(w, http.StatusForbidden, "not permitted")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
