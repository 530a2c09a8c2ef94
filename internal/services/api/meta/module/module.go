// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"liferec/internal/modkit"
	phttp "liferec/internal/platform/net/http"

	metahttp "liferec/internal/services/api/meta/http"
)

// New constructs a meta module mounted under /meta
func New(deps metahttp.Deps, opts ...modkit.Option) modkit.Module {
	return modkit.New("meta", "/meta", append([]modkit.Option{
		modkit.WithRegister(func(r phttp.Router) { metahttp.Register(r, deps) }),
	}, opts...)...)
}
