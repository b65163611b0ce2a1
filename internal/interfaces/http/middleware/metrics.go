package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nexus-advisory/nexus-intelligence/internal/infrastructure/monitoring/prometheus"
)

// Metrics records request counts and latency per route. The route
// template is used instead of the raw path to bound label cardinality.
func Metrics(m *prometheus.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
