// internal/requestinfo/middleware.go
//
// HTTP middleware that enriches each request with *RequestInfo.
//
/*
Context
--------
This handler sits after RealIP and the access logger.  For every request
it:

  1. Parses the User-Agent header.
  2. Takes the client IP from r.RemoteAddr (chi's RealIP has already
     rewritten it from X-Forwarded-For / X-Real-IP).
  3. Performs a GeoLite2 lookup when a database is configured.
  4. Stores a `*RequestInfo` in the request context, so the contact and
     careers handlers can record where a submission came from.

Notes
-----
  • Lookups are read-only on a memory-mapped file; safe under concurrency.
  • Debug level logs one span per request; production runs at info.
*/
package requestinfo

import (
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/agrocms/internal/ua"
)

/*──────────────────────────── middleware ───────────────────────────────────*/

// Enrich returns middleware that attaches *RequestInfo.  geo may be nil.
func Enrich(geo *GeoDB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			info := &RequestInfo{
				UA:        ua.Parse(r.UserAgent()),
				Geo:       geo.Lookup(clientIP(r)),
				URL:       r.URL,
				Timestamp: time.Now().UTC(),
			}

			zap.S().Debugw("request info",
				"ip", info.Geo.IP,
				"country", info.Geo.CountryISO,
				"ua", info.UA.Summary(),
				"bot", info.UA.IsBot,
				"path", r.URL.Path,
			)

			next.ServeHTTP(w, r.WithContext(WithInfo(r.Context(), info)))
		})
	}
}

/*──────────────────────────── client IP helper ─────────────────────────────*/

// clientIP parses r.RemoteAddr, which may or may not carry a port.
func clientIP(r *http.Request) net.IP {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return net.ParseIP(host)
	}
	return net.ParseIP(r.RemoteAddr)
}
