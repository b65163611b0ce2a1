package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nexus-advisory/nexus-intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/nexus-advisory/nexus-intelligence/pkg/types/common"
)

// Pinger checks one dependency's reachability.
type Pinger func(ctx context.Context) error

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	checks  map[string]Pinger
	metrics *prometheus.AppMetrics
	timeout time.Duration
}

// NewHealthHandler builds the health handler. metrics may be nil.
func NewHealthHandler(checks map[string]Pinger, metrics *prometheus.AppMetrics) *HealthHandler {
	return &HealthHandler{checks: checks, metrics: metrics, timeout: 3 * time.Second}
}

// Liveness handles GET /healthz. It only confirms the process serves
// requests.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": common.HealthUp})
}

// Readiness handles GET /readyz. It pings every registered dependency
// and reports 503 when any is down.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	components := make([]common.ComponentHealth, 0, len(h.checks))
	status := common.HealthUp

	for name, ping := range h.checks {
		start := time.Now()
		err := ping(ctx)
		ch := common.ComponentHealth{
			Name:    name,
			Status:  common.HealthUp,
			Latency: time.Since(start),
		}
		if err != nil {
			ch.Status = common.HealthDown
			ch.Message = err.Error()
			status = common.HealthDown
		}
		if h.metrics != nil {
			h.metrics.SetComponentHealth(name, err == nil)
		}
		components = append(components, ch)
	}

	code := http.StatusOK
	if status != common.HealthUp {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": status, "components": components})
}
