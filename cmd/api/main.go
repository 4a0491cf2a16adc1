package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/andresuchdata/salesmap/internal/config"
	"github.com/andresuchdata/salesmap/internal/drive"
	"github.com/andresuchdata/salesmap/internal/pipeline"
	"github.com/andresuchdata/salesmap/internal/repository"
	"github.com/andresuchdata/salesmap/internal/repository/postgres"
	"github.com/andresuchdata/salesmap/internal/service"
	"github.com/andresuchdata/salesmap/pkg/logger"
)

func main() {
	// Load environment variables from .env file if it exists
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()
	logger.SetLevel(cfg.Server.Mode)

	// Initialize Google Drive service
	driveService, err := drive.NewService(cfg.Drive.CredentialsJSON)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize Google Drive service")
	}

	// Initialize Repositories
	var (
		runRepo   repository.ReportRunRepository
		priceRepo repository.PriceGroupRepository
	)
	if cfg.Database.Enabled {
		db, err := postgres.NewDB(&cfg.Database)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to initialize database")
		}
		defer db.Close()
		runRepo = pipeline.NewRepository(db.DB.DB)
		priceRepo = postgres.NewPriceGroupRepository(db)
	} else {
		mem := repository.NewMemoryStore()
		runRepo = mem
		priceRepo = mem
	}

	// Initialize Services
	reportService := service.NewReportService(service.ReportServiceConfig{
		InputSheet:    cfg.Report.InputSheet,
		QuoteSheet:    cfg.Report.QuoteSheet,
		OutputDir:     cfg.App.DataDir,
		MidOutputName: cfg.Report.MidOutputName,
		EndOutputName: cfg.Report.EndOutputName,
		PreviewRows:   cfg.Report.PreviewRows,
	}, service.NewPriceGroupService(priceRepo, nil), runRepo, nil, nil)
	ingestService := drive.NewIngestService(drive.NewFetcher(driveService), reportService).
		KeepInputs(cfg.App.UploadDir)

	// Register routes
	r := mux.NewRouter()
	driveHandler := drive.NewHandler(driveService, ingestService)
	driveHandler.RegisterRoutes(r)

	// Health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}
	logger.Log.Info().Str("addr", addr).Msg("Drive API starting")
	if err := srv.ListenAndServe(); err != nil {
		logger.Log.Fatal().Err(err).Msg("Drive API stopped")
	}
}
