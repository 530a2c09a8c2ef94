package http

import (
	"net/http"

	"liferec/internal/platform/net/http/bind"
)

// JSONHandler binds and validates the body into T before calling fn
func JSONHandler[T any](fn func(*http.Request, T) Response, opts ...bind.Options) Handler {
	return Handle(func(r *http.Request) Response {
		in, err := bind.ParseJSON[T](r, opts...)
		if err != nil {
			return Error(err)
		}
		return fn(r, in)
	})
}

// NoBody calls fn without reading a request body
func NoBody(fn func(*http.Request) Response) Handler {
	return Handle(fn)
}
