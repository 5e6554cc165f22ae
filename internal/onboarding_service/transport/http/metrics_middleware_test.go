package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsMiddleware(t *testing.T) {
	r := chi.NewRouter()
	r.Use(NewMetricsMiddleware("/metrics"))
	r.Get("/metrics", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/test/runs/{runID}", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusAccepted) })

	runs := httpRequestsTotal.WithLabelValues(http.MethodGet, "/test/runs/{runID}", "2xx")
	unmatched := httpRequestsTotal.WithLabelValues(http.MethodGet, unmatchedRoute, "4xx")
	scrapes := httpRequestsTotal.WithLabelValues(http.MethodGet, "/metrics", "2xx")
	runsBefore, unmatchedBefore := testutil.ToFloat64(runs), testutil.ToFloat64(unmatched)

	for _, path := range []string{"/test/runs/run-1", "/test/runs/run-2", "/metrics", "/no-such-route"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	// both run ids collapse into the route pattern
	assert.Equal(t, runsBefore+2, testutil.ToFloat64(runs))
	assert.Equal(t, unmatchedBefore+1, testutil.ToFloat64(unmatched))
	assert.Zero(t, testutil.ToFloat64(scrapes))
	assert.Zero(t, testutil.ToFloat64(httpRequestsInFlight))
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", statusClass(0))
	assert.Equal(t, "2xx", statusClass(http.StatusCreated))
	assert.Equal(t, "5xx", statusClass(http.StatusBadGateway))
}
