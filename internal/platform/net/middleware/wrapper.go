package middleware

import (
	"compress/flate"
	"net/http"
	"time"

	"liferec/internal/platform/config"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// RequestID attaches or propagates X-Request-ID and stores it on context
func RequestID() func(http.Handler) http.Handler { return chimw.RequestID }

// RealIP sets RemoteAddr to the upstream IP based on X-Forwarded-For headers
func RealIP() func(http.Handler) http.Handler { return chimw.RealIP }

// Timeout cancels the request context after d
func Timeout(d time.Duration) func(http.Handler) http.Handler { return chimw.Timeout(d) }

// Compress wraps chi's compressor. level usually flate.DefaultCompression or flate.BestSpeed
func Compress(level int) func(http.Handler) http.Handler {
	c := chimw.NewCompressor(level)
	return func(next http.Handler) http.Handler { return c.Handler(next) }
}

// CORSOptions is a narrow surface over go-chi/cors
type CORSOptions struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int
}

// CORSOptionsFromEnv reads CORE_API_CORS_ORIGINS; the default allows any origin
func CORSOptionsFromEnv(cfg config.Conf) CORSOptions {
	c := cfg.Prefix("CORE_API_")
	return CORSOptions{
		AllowedOrigins: c.MayCSV("CORS_ORIGINS", []string{"*"}),
		MaxAge:         c.MayInt("CORS_MAX_AGE", 300),
	}
}

// CORS wraps go-chi/cors with defaults for a JSON API
func CORS(o CORSOptions) func(http.Handler) http.Handler {
	methods := o.AllowedMethods
	if len(methods) == 0 {
		methods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	}
	headers := o.AllowedHeaders
	if len(headers) == 0 {
		headers = []string{"Accept", "Content-Type", "X-Request-ID"}
	}
	return chicors.Handler(chicors.Options{
		AllowedOrigins: o.AllowedOrigins,
		AllowedMethods: methods,
		AllowedHeaders: headers,
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         o.MaxAge,
	})
}

// Defaults is the stack every API server installs before its routes:
// real ip, request id, request-scoped logger, JSON panic recovery,
// a per-request timeout and compression
func Defaults(timeout time.Duration) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		RealIP(),
		RequestID(),
		RequestLogger,
		RecoverJSON,
		Timeout(timeout),
		Compress(flate.DefaultCompression),
	}
}
