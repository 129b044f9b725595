package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AIworks24/calendar-agent/internal/adapter/api"
	"github.com/AIworks24/calendar-agent/internal/adapter/api/middleware"
	"github.com/AIworks24/calendar-agent/internal/adapter/calendar"
	"github.com/AIworks24/calendar-agent/internal/adapter/extractor"
	"github.com/AIworks24/calendar-agent/internal/adapter/messenger"
	"github.com/AIworks24/calendar-agent/internal/adapter/metrics"
	"github.com/AIworks24/calendar-agent/internal/domain"
	"github.com/AIworks24/calendar-agent/internal/pkg/config"
	"github.com/AIworks24/calendar-agent/internal/pkg/logger"
	"github.com/AIworks24/calendar-agent/internal/usecase"
	"github.com/AIworks24/calendar-agent/internal/validate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logger.New(cfg.LogLevel)
	slog.SetDefault(logger)

	m := metrics.NewPipelineMetrics(prometheus.DefaultRegisterer)

	// --- Start Metrics Server ---
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsMux.HandleFunc("GET /health", api.HealthHandler)

	metricsServer := &http.Server{
		Addr:    cfg.MetricsAddr,
		Handler: metricsMux,
	}

	go func() {
		logger.Info("starting metrics server", "addr", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	// --- Graceful Shutdown Context ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Timezone ---
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("failed to load timezone", "timezone", cfg.Timezone, "error", err)
		os.Exit(1)
	}

	// --- Initialize Pipeline Dependencies ---
	dateValidator := validate.NewDateValidator(cfg.EveningKeywordList())

	eventExtractor := extractor.New(extractor.Config{
		BaseURL:  cfg.ExtractorAPIURL,
		APIKey:   cfg.ExtractorAPIKey,
		Model:    cfg.ExtractorModel,
		Timeout:  cfg.ExtractorTimeout,
		Location: loc,
	}, dateValidator, logger)

	publisher := calendar.NewClient(cfg.CalendarAPIURL, cfg.CalendarUsername, cfg.CalendarPassword, cfg.CalendarTimeout, logger)

	var msgr domain.Messenger
	if cfg.MessagingConfigured() {
		msgr = messenger.NewClient(cfg.MessagingAPIURL, cfg.MessagingAccountSID, cfg.MessagingAuthToken, cfg.MessagingFromNumber, cfg.MessagingTimeout, logger)
	} else {
		logger.Warn("messaging credentials not set, voice confirmations will only be logged")
		msgr = messenger.NewLogOnly(logger)
	}

	pipeline := usecase.NewProcessMessageUseCase(eventExtractor, publisher, logger)

	// --- Initialize Webhook Server ---
	router := api.NewRouter(cfg, logger, pipeline, msgr, m)
	server := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: middleware.Logging(logger)(router),
		// WriteTimeout must outlast a full extract + publish round trip.
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.ExtractorTimeout + cfg.CalendarTimeout + 10*time.Second,
		IdleTimeout:  15 * time.Second,
	}

	go func() {
		logger.Info("starting webhook server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("webhook server failed", "error", err)
			stop() // Trigger shutdown on server error
		}
	}()

	// --- Wait for shutdown signal ---
	<-ctx.Done()
	logger.Info("shutting down servers...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown failed", "error", err)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("webhook server shutdown failed", "error", err)
	}

	logger.Info("servers shut down gracefully")
}
