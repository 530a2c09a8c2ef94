package http

import (
	"net/http"

	"liferec/internal/platform/net/http/bind"
)

// GetJSON mounts a JSON handler for GET
func GetJSON(r Router, path string, h func(*http.Request) Response) {
	r.Get(path, NoBody(h))
}

// PostJSON mounts a JSON handler for POST whose body binds into T
func PostJSON[T any](r Router, path string, h func(*http.Request, T) Response, opts ...bind.Options) {
	r.Post(path, JSONHandler(h, opts...))
}
