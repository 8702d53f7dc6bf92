// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/avanishpal143/Robotic-backend/internal/api"
	"github.com/avanishpal143/Robotic-backend/internal/catalog"
	"github.com/avanishpal143/Robotic-backend/internal/config"
	"github.com/avanishpal143/Robotic-backend/internal/generator"
	"github.com/avanishpal143/Robotic-backend/internal/logger"
	"github.com/avanishpal143/Robotic-backend/internal/metric"
	"github.com/avanishpal143/Robotic-backend/internal/storage"
	"github.com/avanishpal143/Robotic-backend/internal/telemetry"
	"github.com/avanishpal143/Robotic-backend/internal/validation"
	"github.com/avanishpal143/Robotic-backend/internal/websocket"
)

func main() {
	configPath := flag.String("config", ".", "Path to the configuration file directory")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Error setting up logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	// --- Storage ---
	var store storage.Store
	switch cfg.Storage.Backend {
	case "sqlite":
		store, err = storage.NewSQLiteStore(cfg.Storage.Path, zlog)
		if err != nil {
			zlog.Fatal("open sqlite store", zap.Error(err))
		}
	default:
		store = storage.NewMemoryStore(cfg.Storage.BufferSize)
	}
	defer store.Close()

	// --- Components ---
	reg := prometheus.NewRegistry()
	metrics := metric.New(reg)

	cat := catalog.NewMetricCatalog()
	devices := catalog.NewDeviceDirectory()
	hub := websocket.NewHub(zlog, metrics)
	validator := validation.New(cfg.Validation.Rules)

	service := telemetry.NewService(
		cat, devices, store, validator, hub, metrics, zlog,
		cfg.Ingest.Strict, cfg.Ingest.DefaultLimit, cfg.Commands.Limit,
	)

	if cfg.Seed.Enabled {
		seed(cat, devices, zlog)
	}

	// --- Synthetic generator ---
	genCtx, stopGen := context.WithCancel(context.Background())
	defer stopGen()
	if cfg.Generator.Enabled {
		gen := generator.New(service, devices, cat, cfg.Generator.Interval, metrics, zlog)
		go gen.Run(genCtx)
	}

	// --- HTTP server ---
	handler := api.NewHandler(cat, devices, service, hub, zlog)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: api.NewRouter(handler, reg),
	}

	go func() {
		zlog.Info("server listening", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server error", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("shutting down")

	stopGen()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Warn("server shutdown", zap.Error(err))
	}
	zlog.Info("server stopped")
}
