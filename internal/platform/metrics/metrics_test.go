package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveAnalyze(t *testing.T) {
	c := New(prometheus.NewRegistry())
	c.ObserveAnalyze(map[string]int{"literal": 2, "alias": 0, "unknown_abbrev": 1}, 3*time.Millisecond, false)
	c.ObserveAnalyze(map[string]int{"literal": 1}, time.Millisecond, true)

	if got := testutil.ToFloat64(c.analyses); got != 2 {
		t.Fatalf("analyses = %v", got)
	}
	if got := testutil.ToFloat64(c.degraded); got != 1 {
		t.Fatalf("degraded = %v", got)
	}
	if got := testutil.ToFloat64(c.hits.WithLabelValues("literal")); got != 3 {
		t.Fatalf("literal hits = %v", got)
	}
	if n := testutil.CollectAndCount(c.hits); n != 2 {
		t.Fatalf("zero counts must not create series, got %d", n)
	}
}

func TestObserveRequestAndHandler(t *testing.T) {
	c := New(nil)
	c.ObserveRequest("/v1/analyze", http.MethodPost, 200, 5*time.Millisecond)
	c.ObserveRequest("", http.MethodGet, 404, time.Millisecond)

	if got := testutil.ToFloat64(c.requests.WithLabelValues("unmatched", "GET", "404")); got != 1 {
		t.Fatalf("unmatched = %v", got)
	}

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"liferec_http_requests_total", "go_goroutines"} {
		if !strings.Contains(body, want) {
			t.Fatalf("exposition lacks %s", want)
		}
	}
}
