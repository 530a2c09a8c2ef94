// Package http provides http transport for the check service
package http

import (
	stdhttp "net/http"

	phttp "liferec/internal/platform/net/http"
	"liferec/internal/services/api/check/domain"
)

// DegradedWarning is attached to responses produced without the semantic pass
const DegradedWarning = "semantic pass unavailable; results exclude embedding matches"

// Register mounts check endpoints on the given router
func Register(r phttp.Router, s domain.ServicePort) {
	h := &handlers{svc: s}
	phttp.PostJSON[domain.AnalyzeInput](r, "/analyze", h.analyze)
	phttp.PostJSON[domain.AnalyzeInput](r, "/rewrite", h.rewrite)
	phttp.PostJSON[domain.BytesInput](r, "/bytes", h.bytes)
	phttp.GetJSON(r, "/rules", h.rules)
}

// RegisterLegacy mounts POST /analyze at the router root
func RegisterLegacy(r phttp.Router, s domain.ServicePort) {
	h := &handlers{svc: s}
	phttp.PostJSON[domain.AnalyzeInput](r, "/analyze", h.analyze)
}

type handlers struct{ svc domain.ServicePort }

func (h *handlers) analyze(r *stdhttp.Request, in domain.AnalyzeInput) phttp.Response {
	out, err := h.svc.Analyze(r.Context(), in)
	if err != nil {
		return phttp.Error(err)
	}
	if out.Degraded {
		return phttp.Warn(out, DegradedWarning)
	}
	return phttp.OK(out)
}

func (h *handlers) rewrite(r *stdhttp.Request, in domain.AnalyzeInput) phttp.Response {
	out, err := h.svc.Rewrite(r.Context(), in)
	if err != nil {
		return phttp.Error(err)
	}
	if out.Degraded {
		return phttp.Warn(out, DegradedWarning)
	}
	return phttp.OK(out)
}

func (h *handlers) bytes(r *stdhttp.Request, in domain.BytesInput) phttp.Response {
	out, err := h.svc.Bytes(r.Context(), in)
	if err != nil {
		return phttp.Error(err)
	}
	return phttp.OK(out)
}

func (h *handlers) rules(r *stdhttp.Request) phttp.Response {
	out, err := h.svc.Rules(r.Context())
	if err != nil {
		return phttp.Error(err)
	}
	return phttp.OK(out)
}
