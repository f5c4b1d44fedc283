package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetRegistry() {
	initialized = false
	Registry = prometheus.NewRegistry()
}

func TestInit(t *testing.T) {
	resetRegistry()
	require.NoError(t, Init())
	assert.True(t, initialized)
}

func TestInitIsIdempotent(t *testing.T) {
	resetRegistry()
	require.NoError(t, Init())
	require.NoError(t, Init())
}

func TestMiddlewareRecordsRequests(t *testing.T) {
	before := testutil.CollectAndCount(HTTPRequestsTotal)

	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/projects/{tenantID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/projects/t1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// Labeled by route pattern, not the concrete URL.
	count := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/projects/{tenantID}", "200"))
	assert.GreaterOrEqual(t, count, float64(1))
	assert.Greater(t, testutil.CollectAndCount(HTTPRequestsTotal), before-1)
}

func TestRecordUpstreamFailure(t *testing.T) {
	before := testutil.ToFloat64(UpstreamFailures.WithLabelValues("identity", "list_tenants"))
	RecordUpstreamFailure("identity", "list_tenants")
	after := testutil.ToFloat64(UpstreamFailures.WithLabelValues("identity", "list_tenants"))
	assert.Equal(t, before+1, after)
}
