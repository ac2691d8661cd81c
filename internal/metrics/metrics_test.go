package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandlerExposesRequests(t *testing.T) {
	m := New()

	done := m.Start(http.MethodGet, "GET /v1/clients")
	done(http.StatusOK)
	m.RateLimited()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	out := string(body)

	for _, want := range []string{
		`pawnshop_http_requests_total{method="GET",route="GET /v1/clients",status="200"} 1`,
		`pawnshop_http_inflight_requests 0`,
		`pawnshop_http_rate_limited_total 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in metrics output", want)
		}
	}
}
