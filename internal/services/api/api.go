// Package api provides the HTTP API for the application
package api

import (
	"time"

	"liferec/internal/core/embed"
	"liferec/internal/core/engine"
	"liferec/internal/platform/config"
	"liferec/internal/platform/metrics"
	phttp "liferec/internal/platform/net/http"
	"liferec/internal/platform/net/middleware"

	"liferec/internal/modkit"
	"liferec/internal/modkit/swaggerkit"

	checkhttp "liferec/internal/services/api/check/http"
	checkmod "liferec/internal/services/api/check/module"
	metahttp "liferec/internal/services/api/meta/http"
	metamod "liferec/internal/services/api/meta/module"
	"liferec/internal/services/api/docs"
)

// ServiceName identifies the HTTP service in logs and meta endpoints
const ServiceName = "liferec-api"

// Options are the API options
type Options struct {
	Config         config.Conf
	Engine         *engine.Engine
	Metrics        *metrics.Collector
	Embedder       embed.Embedder
	StartedAt      time.Time
	EnableProfiler bool
	// EnableDocs serves the Swagger UI and doc.json under /docs
	EnableDocs bool
	// RequestTimeout bounds each request; zero means 30s
	RequestTimeout time.Duration
	SlowRequest    time.Duration
}

// OptionsFromConfig reads CORE_API_* switches. Engine, Metrics and Embedder
// are left for the caller
func OptionsFromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_API_")
	return Options{
		Config:         cfg,
		StartedAt:      time.Now(),
		EnableProfiler: c.MayBool("PROFILER", false),
		EnableDocs:     c.MayBool("DOCS", false),
		RequestTimeout: c.MayDuration("REQUEST_TIMEOUT", 30*time.Second),
		SlowRequest:    c.MayDuration("SLOW_REQUEST", 2*time.Second),
	}
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	if opt.Engine == nil {
		panic("api.Mount requires an Engine")
	}
	if opt.RequestTimeout <= 0 {
		opt.RequestTimeout = 30 * time.Second
	}

	access := middleware.AccessLogOptions{Slow: opt.SlowRequest}
	if opt.Metrics != nil {
		access.Observe = opt.Metrics.ObserveRequest
	}
	r.Use(middleware.Defaults(opt.RequestTimeout)...)
	r.Use(middleware.CORS(middleware.CORSOptionsFromEnv(opt.Config)))
	r.Use(middleware.AccessLogZerolog(access))

	check := checkmod.New(opt.Engine)
	mods := []modkit.Module{
		check,
		metamod.New(metahttp.Deps{
			ServiceName: ServiceName,
			StartedAt:   opt.StartedAt,
			Repo:        opt.Engine.Repository(),
			Embedder:    opt.Embedder,
		}),
	}

	// versioned API
	r.Route("/v1", func(v1 phttp.Router) { modkit.MountAll(v1, mods...) })

	// unversioned analyze path kept for existing web clients
	if p, ok := modkit.PortsOf[checkmod.Ports](check); ok {
		checkhttp.RegisterLegacy(r, p.Service)
	}

	if opt.Metrics != nil {
		r.Handle("/metrics", opt.Metrics.Handler())
	}
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
	swaggerkit.Mount(r, swaggerkit.Options{
		Enabled:  opt.EnableDocs,
		Prefix:   "/docs",
		Instance: docs.Instance,
		Server:   "/",
	})
}
