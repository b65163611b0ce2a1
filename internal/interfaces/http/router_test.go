package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexus-advisory/nexus-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/nexus-advisory/nexus-intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/nexus-advisory/nexus-intelligence/internal/interfaces/http/handlers"
)

func TestRouterMountsHealthAndMetrics(t *testing.T) {
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "nexus"})
	require.NoError(t, err)

	r := NewRouter(RouterConfig{
		HealthHandler: handlers.NewHealthHandler(nil, nil),
		Logger:        logging.NewNop(),
		Metrics:       prometheus.NewAppMetrics(collector),
		Collector:     collector,
		GinMode:       gin.TestMode,
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouterOmitsNilHandlers(t *testing.T) {
	r := NewRouter(RouterConfig{GinMode: gin.TestMode})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/missions", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouterSetsRequestID(t *testing.T) {
	r := NewRouter(RouterConfig{
		HealthHandler: handlers.NewHealthHandler(nil, nil),
		GinMode:       gin.TestMode,
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
