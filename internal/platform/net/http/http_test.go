package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"liferec/internal/platform/config"
	perr "liferec/internal/platform/errors"
	pnet "liferec/internal/platform/net"
	phttp "liferec/internal/platform/net/http"
	"liferec/internal/platform/testkit"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type echoIn struct {
	Text string `json:"text" validate:"required"`
}

func newRouter(t *testing.T) phttp.Router {
	t.Helper()
	m := chi.NewRouter()
	m.Use(chimw.RequestID)
	r := phttp.AdaptChi(m)

	r.Route("/v1", func(v1 phttp.Router) {
		phttp.PostJSON(v1, "/echo", func(_ *http.Request, in echoIn) phttp.Response {
			if in.Text == "fail" {
				return phttp.Error(perr.NotFoundf("no such text"))
			}
			if in.Text == "warn" {
				return phttp.Warn(in, "degraded")
			}
			return phttp.OK(in)
		})
		phttp.GetJSON(v1, "/pattern", func(r *http.Request) phttp.Response {
			return phttp.OK(phttp.RoutePattern(r))
		})
	})
	r.Group(func(g phttp.Router) {
		g.Get("/raw", func(w http.ResponseWriter, r *http.Request) {
			phttp.RespondError(w, r, perr.Unavailablef("down"))
		})
	})
	return r
}

func do(t *testing.T, r phttp.Router, method, path, body string) (int, pnet.Wire) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	r.Mux().ServeHTTP(rec, req)
	var w pnet.Wire
	if err := json.Unmarshal(rec.Body.Bytes(), &w); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("content type %q", ct)
	}
	return rec.Code, w
}

func TestEnvelopes(t *testing.T) {
	r := newRouter(t)

	code, w := do(t, r, http.MethodPost, "/v1/echo", `{"text":"hi"}`)
	if code != http.StatusOK || w.RequestID == "" || w.Data.(map[string]any)["text"] != "hi" {
		t.Fatalf("ok = %d %+v", code, w)
	}

	code, w = do(t, r, http.MethodPost, "/v1/echo", `{"text":"warn"}`)
	if code != http.StatusOK || len(w.Warnings) != 1 {
		t.Fatalf("warn = %d %+v", code, w)
	}

	code, w = do(t, r, http.MethodPost, "/v1/echo", `{}`)
	if code != http.StatusBadRequest || w.Code != perr.ErrorCodeValidation || w.Field != "text" {
		t.Fatalf("validation = %d %+v", code, w)
	}

	code, w = do(t, r, http.MethodPost, "/v1/echo", `{"text":"fail"}`)
	if code != http.StatusNotFound || w.Error != "no such text" {
		t.Fatalf("not found = %d %+v", code, w)
	}

	code, w = do(t, r, http.MethodGet, "/v1/pattern", "")
	if code != http.StatusOK || w.Data != "/v1/pattern" {
		t.Fatalf("pattern = %d %+v", code, w)
	}

	code, w = do(t, r, http.MethodGet, "/raw", "")
	if code != http.StatusServiceUnavailable || w.Code != perr.ErrorCodeUnavailable {
		t.Fatalf("raw = %d %+v", code, w)
	}
}

func TestMountProfiler(t *testing.T) {
	r := phttp.AdaptChi(chi.NewRouter())
	phttp.MountProfiler(r, "/debug", true)
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/cmdline", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("pprof status = %d", rec.Code)
	}

	off := phttp.AdaptChi(chi.NewRouter())
	phttp.MountProfiler(off, "/debug", false)
	rec = httptest.NewRecorder()
	off.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/cmdline", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("disabled profiler status = %d", rec.Code)
	}
}

func TestServerConfigFromEnv(t *testing.T) {
	testkit.SetEnv(t, map[string]string{"CORE_API_PORT": "9001", "CORE_API_WRITE_TIMEOUT": "5s"})
	sc := phttp.ServerConfigFromEnv(config.New())
	if sc.Addr != ":9001" || sc.WriteTimeout != 5*time.Second || sc.ReadHeaderTimeout != 10*time.Second {
		t.Fatalf("config = %+v", sc)
	}
}

func TestServer_ServeAndShutdown(t *testing.T) {
	optCalled := false
	srv := phttp.NewServer(phttp.ServerConfig{ShutdownGrace: time.Second}, func(*chi.Mux) { optCalled = true })
	if !optCalled {
		t.Fatalf("option not applied")
	}
	srv.Router().Get("/ping", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "pong") })

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/ping")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if string(b) != "pong" {
		t.Fatalf("body = %q", b)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("server did not stop")
	}
}
