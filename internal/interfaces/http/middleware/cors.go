package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORSConfig controls cross-origin access. An empty AllowedOrigins
// list allows any origin.
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods string
	AllowedHeaders string
}

// DefaultCORSConfig permits any origin with the standard API verbs.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedMethods: "GET, POST, PUT, DELETE, OPTIONS",
		AllowedHeaders: "Content-Type, Authorization, X-Request-ID",
	}
}

// CORS sets cross-origin headers and short-circuits preflight requests.
func CORS(cfg CORSConfig) gin.HandlerFunc {
	allowed := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		allowed[o] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if len(allowed) == 0 || allowed[origin] {
				c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
				c.Writer.Header().Set("Vary", "Origin")
				c.Writer.Header().Set("Access-Control-Allow-Methods", cfg.AllowedMethods)
				c.Writer.Header().Set("Access-Control-Allow-Headers", cfg.AllowedHeaders)
			}
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
