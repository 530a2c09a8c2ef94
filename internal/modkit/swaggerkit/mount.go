// Package swaggerkit mounts the Swagger UI and serves the registered
// OpenAPI document with the shared error responses filled in
package swaggerkit

import (
	"net/http"
	"strings"

	phttp "liferec/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/swaggo/swag/v2"
)

// Options configures Mount
type Options struct {
	Enabled bool
	// Prefix is where the UI lives, default /docs
	Prefix string
	// Instance is the name the document was registered under with swag
	Instance string
	// Server is the base URL written into the document's servers list
	Server string
}

// Mount serves Prefix/doc.json and the UI under Prefix when enabled
func Mount(r phttp.Router, o Options) {
	if !o.Enabled {
		return
	}
	prefix := strings.TrimRight(o.Prefix, "/")
	if prefix == "" {
		prefix = "/docs"
	}
	docURL := prefix + "/doc.json"

	r.Get(prefix, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, prefix+"/index.html", http.StatusPermanentRedirect)
	})
	r.Get(docURL, serveDocJSON(o.Instance, o.Server))
	r.Handle(prefix+"/*", httpSwagger.Handler(
		httpSwagger.URL(docURL),
		httpSwagger.DeepLinking(true),
	))
}

// readDoc is swapped in tests
var readDoc = func(instance string) (string, error) { return swag.ReadDoc(instance) }
