// Package http provides the router facade, server and JSON response helpers
// that write every body in the net.Wire envelope
package http

import (
	"encoding/json"
	stdhttp "net/http"

	pnet "liferec/internal/platform/net"
)

// JSON writes v as application/json with the given status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// RespondOK writes a 200 envelope with data
func RespondOK(w stdhttp.ResponseWriter, r *stdhttp.Request, data any) {
	status, body := pnet.OK(data, pnet.RequestID(r.Context()))
	JSON(w, status, body)
}

// RespondError maps a project error into an envelope and writes it
func RespondError(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	status, body := pnet.Error(err, pnet.RequestID(r.Context()))
	JSON(w, status, body)
}

// Response is a functional response object for return-style handlers
type Response struct {
	// Status overrides 200 for a non-error body
	Status   int
	Body     any
	Warnings []string
	Header   stdhttp.Header
}

// Handle adapts a Response-returning handler to net/http
func Handle(h func(r *stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		h(r).write(w, r)
	}
}

func (resp Response) write(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	for k, vv := range resp.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	reqID := pnet.RequestID(r.Context())

	// an error body decides the status itself
	if err, ok := resp.Body.(error); ok && err != nil {
		status, body := pnet.Error(err, reqID)
		JSON(w, status, body)
		return
	}
	code := resp.Status
	if code == 0 {
		code = stdhttp.StatusOK
	}
	status, body := pnet.Status(code, resp.Body, reqID, resp.Warnings...)
	JSON(w, status, body)
}

// OK returns a 200 response
func OK(data any) Response { return Response{Body: data} }

// Warn returns a 200 response that carries warnings next to the data
func Warn(data any, warnings ...string) Response { return Response{Body: data, Warnings: warnings} }

// WithStatus returns a data response written with status
func WithStatus(status int, data any) Response { return Response{Status: status, Body: data} }

// Error returns a response that maps the error to status and envelope
func Error(err error) Response { return Response{Body: err} }
