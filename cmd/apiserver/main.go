// API server entry point for nexus-intelligence.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nexus-advisory/nexus-intelligence/internal/application/intelligence"
	appMission "github.com/nexus-advisory/nexus-intelligence/internal/application/mission"
	"github.com/nexus-advisory/nexus-intelligence/internal/config"
	"github.com/nexus-advisory/nexus-intelligence/internal/infrastructure/database/postgres"
	"github.com/nexus-advisory/nexus-intelligence/internal/infrastructure/database/postgres/repositories"
	"github.com/nexus-advisory/nexus-intelligence/internal/infrastructure/database/redis"
	"github.com/nexus-advisory/nexus-intelligence/internal/infrastructure/messaging/kafka"
	"github.com/nexus-advisory/nexus-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/nexus-advisory/nexus-intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/nexus-advisory/nexus-intelligence/internal/infrastructure/storage/minio"
	httpserver "github.com/nexus-advisory/nexus-intelligence/internal/interfaces/http"
	"github.com/nexus-advisory/nexus-intelligence/internal/interfaces/http/handlers"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v, falling back to environment configuration\n", err)
		cfg, err = config.LoadFromEnv()
		if err != nil {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			os.Exit(1)
		}
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: outputPaths(cfg.Log.Output),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: logger init: %v\n", err)
		os.Exit(1)
	}
	logger.Info("starting nexus-intelligence API server",
		logging.Int("port", cfg.Server.Port),
		logging.String("mode", cfg.Server.Mode),
	)

	// PostgreSQL is the system of record; refuse to start without it.
	conn, err := postgres.NewConnection(cfg.Database, logger)
	if err != nil {
		logger.Error("postgres connection failed", logging.Err(err))
		os.Exit(1)
	}
	defer conn.Close()

	if cfg.Database.MigrationPath != "" {
		if err := conn.RunMigrations(cfg.Database.MigrationPath); err != nil {
			logger.Error("migrations failed", logging.Err(err))
			os.Exit(1)
		}
	}

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            "nexus",
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	})
	if err != nil {
		logger.Error("metrics collector init failed", logging.Err(err))
		os.Exit(1)
	}
	appMetrics := prometheus.NewAppMetrics(collector)

	checks := map[string]handlers.Pinger{
		"postgres": conn.HealthCheck,
	}

	// Cache, archive, and event bus are optional; the pipeline degrades
	// gracefully when any of them is unavailable.
	var cache intelligence.ReportCache
	redisClient, err := redis.NewClient(cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, report caching disabled", logging.Err(err))
	} else {
		defer redisClient.Close()
		cache = redis.NewReportCache(redisClient, logger)
		checks["redis"] = redisClient.Ping
	}

	var publisher intelligence.EventPublisher
	if cfg.Pipeline.EnableEvents {
		producer, err := kafka.NewProducer(cfg.Kafka, logger)
		if err != nil {
			logger.Warn("kafka unavailable, event emission disabled", logging.Err(err))
		} else {
			defer producer.Close()
			publisher = producer
		}
	}

	var (
		archive       intelligence.ReportArchive
		archiveReader handlers.ArchiveReader
	)
	if cfg.Pipeline.EnableArchive {
		store, err := minio.NewClient(cfg.MinIO, logger)
		if err != nil {
			logger.Warn("minio unavailable, report archiving disabled", logging.Err(err))
		} else {
			reportArchive := minio.NewReportArchive(store, logger)
			archive = reportArchive
			archiveReader = reportArchive
			checks["minio"] = store.HealthCheck
		}
	}

	missionRepo := repositories.NewPostgresMissionRepo(conn, logger)
	missionService := appMission.NewService(missionRepo, logger)
	intelService := intelligence.NewService(cache, archive, publisher, logger,
		intelligence.WithCacheTTL(cfg.Pipeline.CacheTTL),
		intelligence.WithDefaultMode(cfg.Pipeline.DefaultMode),
	)

	router := httpserver.NewRouter(httpserver.RouterConfig{
		MissionHandler:    handlers.NewMissionHandler(missionService),
		AssessmentHandler: handlers.NewAssessmentHandler(intelService),
		ReportHandler:     handlers.NewReportHandler(intelService, missionService, archiveReader, appMetrics),
		HealthHandler:     handlers.NewHealthHandler(checks, appMetrics),
		Logger:            logger,
		Metrics:           appMetrics,
		Collector:         collector,
		RateLimitRPS:      float64(cfg.Server.RateLimitRPS),
		GinMode:           cfg.Server.Mode,
	})

	server := httpserver.NewServer(cfg.Server, router, logger)
	go func() {
		if err := server.Start(); err != nil {
			logger.Error("HTTP server error", logging.Err(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	if err := server.Stop(context.Background()); err != nil {
		logger.Error("shutdown error", logging.Err(err))
	}
	logger.Info("server stopped")
}

func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}
	return config.Load(path)
}

func outputPaths(output string) []string {
	if output == "" {
		return nil
	}
	return []string{output}
}
