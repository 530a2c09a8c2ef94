// Package middleware holds the HTTP middleware stack of the API server
package middleware

import (
	"net/http"
	"time"

	"liferec/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// ObserveFunc receives the route pattern, method, status and latency of a
// served request
type ObserveFunc func(route, method string, status int, elapsed time.Duration)

// AccessLogOptions configures AccessLogZerolog
type AccessLogOptions struct {
	// Slow logs requests taking at least this long at warn; 0 disables it
	Slow time.Duration
	// Observe is called after every request when set
	Observe ObserveFunc
}

// AccessLogZerolog writes one line per request through the request scoped
// logger. The route is the matched chi pattern, empty when nothing matched
func AccessLogZerolog(opt AccessLogOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			elapsed := time.Since(start)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			var route string
			if rc := chi.RouteContext(r.Context()); rc != nil {
				route = rc.RoutePattern()
			}
			if opt.Observe != nil {
				opt.Observe(route, r.Method, status, elapsed)
			}

			l := logger.C(r.Context())
			evt := l.Info()
			if slow := opt.Slow > 0 && elapsed >= opt.Slow; slow {
				evt = l.Warn().Bool("slow", true)
			}
			evt.Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", route).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("elapsed", elapsed).
				Msg("request done")
		})
	}
}
