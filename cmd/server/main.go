package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ordermcp/internal/cache"
	"ordermcp/internal/config"
	"ordermcp/internal/handlers"
	"ordermcp/internal/instrumentation"
	"ordermcp/internal/mcp"
	"ordermcp/internal/store"
)

func main() {
	// Load configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("ordermcp_service_starting",
		"port", cfg.Port,
		"timeout_ms", cfg.TimeoutMS,
		"db_path", cfg.DBPath,
		"cache_enabled", cfg.CacheEnabled(),
	)

	// Open the order/product store
	st, err := store.Open(cfg.DBPath, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	logger.Info("store_opened", "db_path", cfg.DBPath)

	// Optional Redis report cache
	var reportCache *cache.Cache
	if cfg.CacheEnabled() {
		reportCache, err = cache.New(cfg.RedisURL, cfg.RedisPassword, cfg.CacheTTL(), logger)
		if err != nil {
			logger.Error("failed to create report cache", "error", err)
			os.Exit(1)
		}
		defer reportCache.Close()
		logger.Info("report_cache_initialized", "ttl_ms", cfg.CacheTTLMS)
	}

	// Build the tool registry over the store
	executor := mcp.NewToolExecutor(st, logger)
	registry, err := mcp.NewRegistry(executor)
	if err != nil {
		logger.Error("failed to build tool registry", "error", err)
		os.Exit(1)
	}

	logger.Info("tool_registry_built", "tools", len(registry.ListTools()))

	// Prometheus instrumentation
	promRegistry := prometheus.NewRegistry()
	metrics := instrumentation.NewMetrics(promRegistry)

	// Create handlers
	invokeHandler := handlers.NewMCPInvokeHandler(registry, reportCache, metrics, logger)

	// Create router
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(handlers.CorrelationIDMiddleware)
	r.Use(handlers.LoggingMiddleware(logger))
	r.Use(handlers.TimeoutMiddleware(cfg.Timeout(), logger))

	// Health check endpoint (for docker healthcheck)
	r.Get("/health", handlers.HealthCheckHandler(logger))

	// Prometheus metrics
	r.Get("/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}).ServeHTTP)

	// MCP endpoint: JSON-RPC 2.0 over SSE
	r.Post("/mcp/sse", invokeHandler.ServeHTTP)

	// Start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("ordermcp_server_listening", "port", cfg.Port, "status", "healthy")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server_error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	// Graceful shutdown
	logger.Info("shutdown_signal_received", "signal", sig.String())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}

	logger.Info("ordermcp_service_stopped")
}
