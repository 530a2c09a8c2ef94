// Package modkit is the small module contract the API is composed from:
// each service exposes a module that mounts its routes under a prefix and
// may publish a port set for other wiring
package modkit

import (
	"net/http"
	"strings"

	phttp "liferec/internal/platform/net/http"
)

// Module is the common surface for API modules that can mount routes and expose ports
// keep this tiny so modules stay decoupled
type Module interface {
	// MountRoutes mounts HTTP routes under the provided router seam
	MountRoutes(r phttp.Router)
	// Ports returns a module specific port set for cross wiring
	Ports() any
	// Name returns the module name
	Name() string
}

// Option mutates build configuration for a module
type Option func(*buildCfg)

type buildCfg struct {
	name     string
	prefix   string
	mw       []func(http.Handler) http.Handler
	ports    any
	register func(phttp.Router)
}

// WithName sets a module name used in logs
func WithName(name string) Option {
	return func(c *buildCfg) { c.name = name }
}

// WithPrefix mounts a module under a path prefix; empty mounts at the parent
func WithPrefix(prefix string) Option {
	return func(c *buildCfg) { c.prefix = prefix }
}

// WithMiddlewares attaches per module middleware in order
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(c *buildCfg) { c.mw = append(c.mw, mw...) }
}

// WithPorts publishes the module's port set
func WithPorts(p any) Option {
	return func(c *buildCfg) { c.ports = p }
}

// WithRegister sets the function that attaches endpoints to the module router
func WithRegister(fn func(phttp.Router)) Option {
	return func(c *buildCfg) { c.register = fn }
}

// base is the Module every service builds through New
type base struct {
	cfg buildCfg
}

// New applies opts over the defaults name and prefix
func New(name, prefix string, opts ...Option) Module {
	c := buildCfg{name: name, prefix: prefix}
	for _, o := range opts {
		o(&c)
	}
	if c.prefix != "" && !strings.HasPrefix(c.prefix, "/") {
		c.prefix = "/" + c.prefix
	}
	c.prefix = strings.TrimRight(c.prefix, "/")
	return &base{cfg: c}
}

// MountRoutes implements Module
func (m *base) MountRoutes(r phttp.Router) {
	mount := func(rr phttp.Router) {
		for _, mw := range m.cfg.mw {
			rr.Use(mw)
		}
		if m.cfg.register != nil {
			m.cfg.register(rr)
		}
	}
	if m.cfg.prefix == "" {
		r.Group(mount)
		return
	}
	r.Route(m.cfg.prefix, mount)
}

// Ports implements Module
func (m *base) Ports() any { return m.cfg.ports }

// Name implements Module
func (m *base) Name() string { return m.cfg.name }

// PortsOf type asserts a module's port set
func PortsOf[T any](m Module) (T, bool) {
	p, ok := m.Ports().(T)
	return p, ok
}

// MountAll mounts every module on r in order
func MountAll(r phttp.Router, mods ...Module) {
	for _, m := range mods {
		m.MountRoutes(r)
	}
}
