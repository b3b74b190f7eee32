// internal/middleware/accesslog.go
//
// Request logging and HTTP metrics.
//
// Context
// -------
// AccessLog attaches a request-scoped sugared logger (request id, method,
// path) to the context so handlers and api.Error log with the same fields,
// then writes one line per request and feeds the Prometheus counters.
//
// Notes
// -----
// • Metrics use the chi route pattern ("/blog/{slug}"), never the raw
//   path, so label cardinality stays bounded.  Unmatched requests are
//   counted under "unmatched".
// • Runs after chi's RequestID and RealIP.

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/yanizio/agrocms/internal/logger"
	"github.com/yanizio/agrocms/internal/metrics"
)

// AccessLog returns the logging middleware built on base.
func AccessLog(base *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			l := base.With(
				"req_id", chimw.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
			)
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			r = r.WithContext(logger.WithContext(r.Context(), l))

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)
			route := routePattern(r)

			metrics.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
			metrics.HTTPDuration.WithLabelValues(route).Observe(elapsed.Seconds())

			fields := []any{"status", status, "bytes", ww.BytesWritten(), "dur", elapsed, "ip", r.RemoteAddr}
			switch {
			case status >= 500:
				l.Errorw("request", fields...)
			case r.URL.Path == "/healthz" || r.URL.Path == "/metrics":
				l.Debugw("request", fields...)
			default:
				l.Infow("request", fields...)
			}
		})
	}
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
