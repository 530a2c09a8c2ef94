package modkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	phttp "liferec/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pinger interface{ Ping() string }

type pong struct{}

func (pong) Ping() string { return "pong" }

func hello(r phttp.Router) {
	r.Get("/hello", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("hi")) })
}

func serve(t *testing.T, mods ...Module) http.Handler {
	t.Helper()
	m := chi.NewRouter()
	MountAll(phttp.AdaptChi(m), mods...)
	return m
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestNewPrefixAndRegister(t *testing.T) {
	h := serve(t, New("greet", "greet/", WithRegister(hello)))
	rec := get(h, "/greet/hello")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hi", rec.Body.String())
}

func TestEmptyPrefixMountsAtParent(t *testing.T) {
	h := serve(t, New("root", "", WithRegister(hello)))
	assert.Equal(t, http.StatusOK, get(h, "/hello").Code)
}

func TestMiddlewaresAreScopedToModule(t *testing.T) {
	tag := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Module", "a")
			next.ServeHTTP(w, r)
		})
	}
	h := serve(t,
		New("a", "/a", WithMiddlewares(tag), WithRegister(hello)),
		New("b", "/b", WithRegister(hello)),
	)
	assert.Equal(t, "a", get(h, "/a/hello").Header().Get("X-Module"))
	assert.Empty(t, get(h, "/b/hello").Header().Get("X-Module"))
}

func TestPortsAndName(t *testing.T) {
	m := New("ports", "/p", WithName("renamed"), WithPorts(pong{}))
	assert.Equal(t, "renamed", m.Name())

	p, ok := PortsOf[pinger](m)
	require.True(t, ok)
	assert.Equal(t, "pong", p.Ping())

	_, ok = PortsOf[pinger](New("none", "/n"))
	assert.False(t, ok)
}
