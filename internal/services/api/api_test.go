package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"liferec/internal/core/engine"
	"liferec/internal/core/policy"
	"liferec/internal/platform/config"
	"liferec/internal/platform/metrics"
	phttp "liferec/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAPI(t *testing.T, tweak ...func(*Options)) (http.Handler, *metrics.Collector) {
	t.Helper()
	repo, err := policy.Default(context.Background())
	require.NoError(t, err)
	col := metrics.New(nil)
	eng := engine.New(repo, engine.DefaultOptions(), engine.WithObserver(col))

	opt := OptionsFromConfig(config.New())
	opt.Engine = eng
	opt.Metrics = col
	for _, f := range tweak {
		f(&opt)
	}

	m := chi.NewRouter()
	Mount(phttp.AdaptChi(m), opt)
	return m, col
}

func TestMountServesAnalyzeWithEnvelope(t *testing.T) {
	h, _ := newAPI(t)

	for _, path := range []string{"/v1/analyze", "/analyze"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"text":"NAVER 블로그"}`))
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"), path)

		var env struct {
			RequestID string `json:"request_id"`
			Data      struct {
				Hits []struct {
					Span string `json:"span"`
				} `json:"hits"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		assert.Equal(t, rec.Header().Get("X-Request-ID"), env.RequestID)
		require.Len(t, env.Data.Hits, 1)
		assert.Equal(t, "NAVER", env.Data.Hits[0].Span)
	}
}

func TestMountMetaAndMetrics(t *testing.T) {
	h, _ := newAPI(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/meta/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/analyze", strings.NewReader(`{"text":"XYZ"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)
	assert.Contains(t, text, "liferec_engine_analyses_total 1")
	assert.Contains(t, text, `liferec_http_requests_total{method="POST",route="/v1/analyze",status="200"} 1`)
	assert.Contains(t, text, `route="/v1/meta/health"`)
}

func TestMountCORSPreflight(t *testing.T) {
	h, _ := newAPI(t)
	req := httptest.NewRequest(http.MethodOptions, "/v1/analyze", nil)
	req.Header.Set("Origin", "https://school.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMountNotFoundAndProfilerOff(t *testing.T) {
	h, _ := newAPI(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMountRequiresEngine(t *testing.T) {
	assert.Panics(t, func() { Mount(phttp.AdaptChi(chi.NewRouter()), Options{}) })
}

func TestOptionsFromConfig(t *testing.T) {
	t.Setenv("CORE_API_PROFILER", "true")
	t.Setenv("CORE_API_REQUEST_TIMEOUT", "5s")
	opt := OptionsFromConfig(config.New())
	assert.True(t, opt.EnableProfiler)
	assert.False(t, opt.EnableDocs)
	assert.Equal(t, 5*time.Second, opt.RequestTimeout)
	assert.Equal(t, 2*time.Second, opt.SlowRequest)
}

func TestMountDocs(t *testing.T) {
	h, _ := newAPI(t, func(o *Options) { o.EnableDocs = true })

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/doc.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var doc struct {
		OpenAPI string                    `json:"openapi"`
		Info    map[string]any            `json:"info"`
		Paths   map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "3.0.3", doc.OpenAPI)
	assert.Equal(t, "liferec API", doc.Info["title"])
	for _, p := range []string{"/v1/analyze", "/v1/rewrite", "/v1/bytes", "/v1/rules", "/analyze", "/v1/meta/ready"} {
		assert.Contains(t, doc.Paths, p)
	}
	analyze, ok := doc.Paths["/v1/analyze"]["post"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, analyze["responses"], "400")
	assert.Contains(t, analyze["responses"], "500")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/index.html", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/docs/doc.json")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))
	assert.Equal(t, http.StatusPermanentRedirect, rec.Code)
	assert.Equal(t, "/docs/index.html", rec.Header().Get("Location"))
}

func TestMountDocsOffByDefault(t *testing.T) {
	h, _ := newAPI(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/doc.json", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
