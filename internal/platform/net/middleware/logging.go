package middleware

import (
	"net/http"

	"liferec/internal/platform/logger"
	pnet "liferec/internal/platform/net"
)

// RequestLogger copies the request id onto the logger context so every
// line logged while serving the request carries it. Install after RequestID
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if id := pnet.RequestID(ctx); id != "" {
			w.Header().Set("X-Request-ID", id)
			r = r.WithContext(logger.WithRequest(ctx, id, ""))
		}
		next.ServeHTTP(w, r)
	})
}
