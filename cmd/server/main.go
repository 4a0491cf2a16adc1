// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/salesmap/internal/api"
	"github.com/andresuchdata/salesmap/internal/cache"
	"github.com/andresuchdata/salesmap/internal/config"
	"github.com/andresuchdata/salesmap/internal/pipeline"
	"github.com/andresuchdata/salesmap/internal/repository"
	"github.com/andresuchdata/salesmap/internal/repository/postgres"
	"github.com/andresuchdata/salesmap/internal/service"
	"github.com/andresuchdata/salesmap/internal/storage"
	"github.com/andresuchdata/salesmap/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Repositories: Postgres when enabled, otherwise process memory
	var (
		runRepo   repository.ReportRunRepository
		priceRepo repository.PriceGroupRepository
	)
	if cfg.Database.Enabled {
		db, err := postgres.NewDB(&cfg.Database)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()
		runRepo = pipeline.NewRepository(db.DB.DB)
		priceRepo = postgres.NewPriceGroupRepository(db)
	} else {
		logger.Log.Warn().Msg("Database disabled, run history and price groups are kept in memory")
		mem := repository.NewMemoryStore()
		runRepo = mem
		priceRepo = mem
	}

	// Caches
	reportCache, err := cache.NewReportCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Report cache unavailable, continuing without it")
		reportCache = cache.NewNoopReportCache()
	}
	priceCache, err := cache.NewPriceGroupCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Price group cache unavailable, continuing without it")
		priceCache = cache.NewNoopPriceGroupCache()
	}

	// Report archive
	var store storage.ObjectStorage
	if cfg.Storage.Enabled {
		client, err := storage.NewMinioClient(storage.Config{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to configure report storage")
		}
		store = client
	}

	// Initialize services
	priceService := service.NewPriceGroupService(priceRepo, priceCache)
	reportService := service.NewReportService(service.ReportServiceConfig{
		InputSheet:    cfg.Report.InputSheet,
		QuoteSheet:    cfg.Report.QuoteSheet,
		OutputDir:     cfg.App.DataDir,
		ObjectPrefix:  cfg.Storage.Prefix,
		MidOutputName: cfg.Report.MidOutputName,
		EndOutputName: cfg.Report.EndOutputName,
		PreviewRows:   cfg.Report.PreviewRows,
	}, priceService, runRepo, reportCache, store)

	// Initialize HTTP server
	router := api.NewRouter(&api.Services{
		ReportService:     reportService,
		PriceGroupService: priceService,
	}, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
