// Background worker entry point for nexus-intelligence.
//
// The worker consumes pipeline events from Kafka and maintains the audit
// trail and operational metrics for reports generated elsewhere.  It exposes
// /healthz and /metrics for probes and scraping.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nexus-advisory/nexus-intelligence/internal/application/intelligence"
	"github.com/nexus-advisory/nexus-intelligence/internal/config"
	"github.com/nexus-advisory/nexus-intelligence/internal/infrastructure/messaging/kafka"
	"github.com/nexus-advisory/nexus-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/nexus-advisory/nexus-intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/nexus-advisory/nexus-intelligence/internal/infrastructure/storage/minio"
)

const (
	defaultConfigPath = "configs/config.yaml"
	defaultProbePort  = 8081
)

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	workers := flag.Int("workers", 0, "consumer concurrency (overrides config)")
	topics := flag.String("topics", "", "comma-separated topic filter")
	probePort := flag.Int("probe-port", defaultProbePort, "health/metrics listen port")
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
	if *workers > 0 {
		cfg.Worker.Concurrency = *workers
	}

	logger, err := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: logger init: %v\n", err)
		os.Exit(1)
	}
	logger = logger.Named("worker")

	subscribed := subscribedTopics(*topics)
	logger.Info("starting nexus-intelligence worker",
		logging.Int("concurrency", cfg.Worker.Concurrency),
		logging.Any("topics", subscribed),
	)

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            "nexus_worker",
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	})
	if err != nil {
		logger.Error("metrics collector init failed", logging.Err(err))
		os.Exit(1)
	}
	metrics := prometheus.NewAppMetrics(collector)

	// The archive is consulted to verify that each generated report was
	// durably stored; a missing object is an operational signal.
	var archive *minio.ReportArchive
	if cfg.Pipeline.EnableArchive {
		store, err := minio.NewClient(cfg.MinIO, logger)
		if err != nil {
			logger.Warn("minio unavailable, archive verification disabled", logging.Err(err))
		} else {
			archive = minio.NewReportArchive(store, logger)
		}
	}

	consumer, err := kafka.NewConsumer(cfg.Kafka, cfg.Worker, subscribed, logger)
	if err != nil {
		logger.Error("kafka consumer init failed", logging.Err(err))
		os.Exit(1)
	}

	consumer.Subscribe(intelligence.TopicReportGenerated, reportGeneratedHandler(logger, metrics, archive))
	consumer.Subscribe(intelligence.TopicSafeguardBlocked, safeguardBlockedHandler(logger, metrics))

	if err := consumer.Start(context.Background()); err != nil {
		logger.Error("consumer start failed", logging.Err(err))
		os.Exit(1)
	}
	metrics.SetComponentHealth("kafka", true)

	probe := probeServer(*probePort, collector)
	go func() {
		if err := probe.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("probe server error", logging.Err(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	if err := consumer.Stop(); err != nil {
		logger.Error("consumer stop error", logging.Err(err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := probe.Shutdown(ctx); err != nil {
		logger.Error("probe server shutdown error", logging.Err(err))
	}
	logger.Info("worker stopped")
}

// reportGeneratedHandler records the audit line and metrics for each
// completed report, and verifies the NSIL document reached the archive.
func reportGeneratedHandler(logger logging.Logger, metrics *prometheus.AppMetrics, archive *minio.ReportArchive) kafka.Handler {
	return func(ctx context.Context, msg *kafka.Message) error {
		var event intelligence.ReportGeneratedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			// Malformed events are logged and dropped, never retried.
			logger.Warn("malformed report.generated event",
				logging.Int64("offset", msg.Offset),
				logging.Err(err),
			)
			return nil
		}
		logger.Info("report generated",
			logging.String("case_id", event.CaseID),
			logging.String("org_name", event.OrgName),
			logging.String("target_region", event.TargetRegion),
			logging.Int("overall_score", event.OverallScore),
			logging.Int("ivas_score", event.IVASScore),
		)
		mode := event.Mode
		if mode == "" {
			mode = "Discovery"
		}
		metrics.RecordReport(mode, false, time.Since(event.GeneratedAt))

		if archive != nil {
			ok, err := archive.Exists(ctx, event.CaseID)
			if err != nil {
				return err
			}
			if !ok {
				logger.Error("generated report missing from archive",
					logging.String("case_id", event.CaseID),
				)
			}
		}
		return nil
	}
}

// safeguardBlockedHandler keeps the blocked-mission audit trail.
func safeguardBlockedHandler(logger logging.Logger, metrics *prometheus.AppMetrics) kafka.Handler {
	return func(_ context.Context, msg *kafka.Message) error {
		var event intelligence.SafeguardBlockedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Warn("malformed safeguard.blocked event",
				logging.Int64("offset", msg.Offset),
				logging.Err(err),
			)
			return nil
		}
		logger.Warn("mission blocked by safeguards",
			logging.String("case_id", event.CaseID),
			logging.String("org_name", event.OrgName),
			logging.Any("rules", event.Rules),
		)
		for _, rule := range event.Rules {
			metrics.RecordSafeguardFlag(rule, "block")
		}
		return nil
	}
}

func probeServer(port int, collector prometheus.MetricsCollector) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", collector.Handler())
	return &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
}

func subscribedTopics(filter string) []string {
	all := []string{intelligence.TopicReportGenerated, intelligence.TopicSafeguardBlocked}
	if filter == "" {
		return all
	}
	want := map[string]bool{}
	for _, t := range strings.Split(filter, ",") {
		want[strings.TrimSpace(t)] = true
	}
	var out []string
	for _, t := range all {
		if want[t] {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return all
	}
	return out
}

func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}
	return config.Load(path)
}
