// Package http wires the gin route tree and the API server lifecycle.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/nexus-advisory/nexus-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/nexus-advisory/nexus-intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/nexus-advisory/nexus-intelligence/internal/interfaces/http/handlers"
	"github.com/nexus-advisory/nexus-intelligence/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies for
// the complete route tree. Nil handlers leave their routes unmounted,
// which keeps tests focused.
type RouterConfig struct {
	MissionHandler    *handlers.MissionHandler
	AssessmentHandler *handlers.AssessmentHandler
	ReportHandler     *handlers.ReportHandler
	HealthHandler     *handlers.HealthHandler

	Logger       logging.Logger
	Metrics      *prometheus.AppMetrics
	Collector    prometheus.MetricsCollector
	RateLimitRPS float64
	GinMode      string
}

// NewRouter builds the gin engine with the global middleware chain and
// all mounted routes.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())

	if cfg.Logger != nil {
		r.Use(middleware.RequestLogger(cfg.Logger))
	}
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimitRPS > 0 {
		r.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimitRPS)))
	}
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.Liveness)
		r.GET("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.Collector != nil {
		r.GET("/metrics", gin.WrapH(cfg.Collector.Handler()))
	}

	api := r.Group("/api/v1")
	registerMissionRoutes(api, cfg.MissionHandler)
	registerAssessmentRoutes(api, cfg.AssessmentHandler)
	registerReportRoutes(api, cfg.ReportHandler)

	return r
}

func registerMissionRoutes(r *gin.RouterGroup, h *handlers.MissionHandler) {
	if h == nil {
		return
	}
	missions := r.Group("/missions")
	missions.POST("", h.Create)
	missions.GET("", h.List)
	missions.GET("/:id", h.Get)
	missions.PUT("/:id", h.Update)
	missions.DELETE("/:id", h.Delete)
}

func registerAssessmentRoutes(r *gin.RouterGroup, h *handlers.AssessmentHandler) {
	if h == nil {
		return
	}
	assessments := r.Group("/assessments")
	assessments.POST("/spi", h.SPI)
	assessments.POST("/ethics", h.Ethics)
}

func registerReportRoutes(r *gin.RouterGroup, h *handlers.ReportHandler) {
	if h == nil {
		return
	}
	reports := r.Group("/reports")
	reports.POST("/generate", h.Generate)
	reports.GET("/:caseID", h.Get)
	reports.GET("/:caseID/download", h.Download)
}
