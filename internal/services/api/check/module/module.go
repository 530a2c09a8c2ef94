// Package module wires the check endpoints into the API
package module

import (
	"liferec/internal/core/engine"
	"liferec/internal/modkit"
	phttp "liferec/internal/platform/net/http"

	"liferec/internal/services/api/check/domain"
	checkhttp "liferec/internal/services/api/check/http"
	checksvc "liferec/internal/services/api/check/service"
)

// Ports is the port set published by the check module
type Ports struct {
	Service domain.ServicePort
}

// New constructs the check module over eng, mounted at the parent router
func New(eng *engine.Engine, opts ...modkit.Option) modkit.Module {
	svc := checksvc.New(eng)
	return modkit.New("check", "", append([]modkit.Option{
		modkit.WithPorts(Ports{Service: svc}),
		modkit.WithRegister(func(r phttp.Router) { checkhttp.Register(r, svc) }),
	}, opts...)...)
}
