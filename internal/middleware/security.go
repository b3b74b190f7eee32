// internal/middleware/security.go
//
// Security-header middleware.
//
// Injects the usual headers on every response:
//
//   • Strict-Transport-Security  –  only when the site forces HTTPS
//   • Content-Security-Policy   –  self-only, plus embedded map frames
//   • X-Frame-Options           –  click-jacking defence
//   • X-Content-Type-Options    –  MIME-sniffing defence
//   • Referrer-Policy           –  drops path/query from Referer
//   • Permissions-Policy        –  disables powerful features by default
//
// Notes
// -----
// • Headers are set before next.ServeHTTP; once a handler writes the status
//   line, later header changes are lost.  Handlers may still override any
//   of them.
// • The headquarters page embeds map iframes, hence frame-src.

package middleware

import "net/http"

// Security returns middleware that sets security headers.  hsts adds
// Strict-Transport-Security.
func Security(hsts bool) func(http.Handler) http.Handler {
	const (
		hstsValue = "max-age=63072000; includeSubDomains"
		csp       = "default-src 'self'; img-src 'self' data:; object-src 'none'; " +
			"frame-src https://www.google.com https://maps.google.com; " +
			"base-uri 'self'; frame-ancestors 'none'"
		xfo   = "DENY"
		nosn  = "nosniff"
		refer = "strict-origin-when-cross-origin"
		perm  = "geolocation=(), microphone=(), camera=()"
	)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			if hsts {
				h.Set("Strict-Transport-Security", hstsValue)
			}
			h.Set("Content-Security-Policy", csp)
			h.Set("X-Frame-Options", xfo)
			h.Set("X-Content-Type-Options", nosn)
			h.Set("Referrer-Policy", refer)
			h.Set("Permissions-Policy", perm)
			next.ServeHTTP(w, r)
		})
	}
}
