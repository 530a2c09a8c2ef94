// Package http provides meta endpoints
package http

import (
	stdctx "context"
	"net/http"
	"time"

	"liferec/internal/core/embed"
	"liferec/internal/core/policy"
	"liferec/internal/core/version"
	phttp "liferec/internal/platform/net/http"
)

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Repo        *policy.Repository
	// Embedder is pinged by /ready; nil falls back to the repository's
	Embedder embed.Embedder
	Now      func() time.Time
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r phttp.Router, d Deps) {
	if d.Now == nil {
		d.Now = time.Now
	}
	h := &handlers{deps: d}

	// mount routes
	phttp.GetJSON(r, "/health", h.health)
	phttp.GetJSON(r, "/ready", h.ready)
	phttp.GetJSON(r, "/version", h.version)
	phttp.GetJSON(r, "/service", h.service)
	phttp.GetJSON(r, "/policy", h.policy)
}

// HealthResponse is the health payload
type HealthResponse struct {
	OK      bool   `json:"ok"       example:"true"`
	Service string `json:"service"  example:"liferec-api"`
	Started string `json:"started"  example:"2025-09-03T13:00:00Z"`
	Now     string `json:"now"      example:"2025-09-03T13:05:00Z"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"   example:"rules"`
	Status string `json:"status" example:"ok"` // ok fail skipped
	Error  string `json:"error,omitempty"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"` // ok degraded fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2025-09-03T13:05:00Z"`
}

// ServiceResponse describes service info
type ServiceResponse struct {
	Name    string `json:"name"    example:"liferec-api"`
	Started string `json:"started" example:"2025-09-03T13:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

// PolicyResponse reports the compiled rule table and build info
type PolicyResponse struct {
	PolicyVersion      string            `json:"policy_version" example:"2024-03"`
	Rules              int               `json:"rules"          example:"48"`
	Aliases            int               `json:"aliases"        example:"120"`
	KnownAbbreviations int               `json:"known_abbreviations" example:"60"`
	SemanticEnabled    bool              `json:"semantic_enabled"`
	Build              version.BuildInfo `json:"build"`
}

func (h *handlers) now() string { return h.deps.Now().UTC().Format(time.RFC3339) }

func (h *handlers) build() version.BuildInfo {
	b := version.Info(h.deps.ServiceName)
	if h.deps.Repo != nil {
		b = b.WithPolicy(h.deps.Repo.PolicyVersion())
	}
	return b
}

func (h *handlers) health(_ *http.Request) phttp.Response {
	return phttp.OK(HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Now:     h.now(),
	})
}

func (h *handlers) ready(r *http.Request) phttp.Response {
	ctx, cancel := stdctx.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	rules := ReadyCheck{Name: "rules", Status: "ok"}
	if h.deps.Repo == nil || h.deps.Repo.Len() == 0 {
		rules = ReadyCheck{Name: "rules", Status: "fail", Error: "no rule table loaded"}
	}

	emb := ReadyCheck{Name: "embedder", Status: "skipped"}
	if h.deps.Repo != nil && h.deps.Repo.SemanticEnabled() {
		e := h.deps.Embedder
		if e == nil {
			e = h.deps.Repo.Embedder()
		}
		emb.Status = "ok"
		if err := embed.Ping(ctx, e); err != nil {
			emb = ReadyCheck{Name: "embedder", Status: "fail", Error: err.Error()}
		}
	}

	// the embedder only degrades results, it never fails readiness
	overall := "ok"
	switch {
	case rules.Status == "fail":
		overall = "fail"
	case emb.Status == "fail":
		overall = "degraded"
	}

	status := http.StatusOK
	if overall == "fail" {
		status = http.StatusServiceUnavailable
	}
	return phttp.WithStatus(status, ReadyResponse{
		Status: overall,
		Checks: []ReadyCheck{rules, emb},
		Now:    h.now(),
	})
}

func (h *handlers) version(_ *http.Request) phttp.Response {
	return phttp.OK(h.build())
}

func (h *handlers) service(_ *http.Request) phttp.Response {
	uptime := h.deps.Now().Sub(h.deps.StartedAt)
	return phttp.OK(ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(uptime / time.Second),
	})
}

func (h *handlers) policy(_ *http.Request) phttp.Response {
	out := PolicyResponse{Build: h.build()}
	if repo := h.deps.Repo; repo != nil {
		out.PolicyVersion = repo.PolicyVersion()
		out.Rules = repo.Len()
		out.Aliases = len(repo.Aliases())
		out.KnownAbbreviations = len(repo.KnownAbbreviations())
		out.SemanticEnabled = repo.SemanticEnabled()
	}
	return phttp.OK(out)
}
