package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/cache"
	"github.com/andresuchdata/logistics-analytics/backend-go/internal/config"
	"github.com/andresuchdata/logistics-analytics/backend-go/internal/drive"
	"github.com/andresuchdata/logistics-analytics/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/logistics-analytics/backend-go/internal/service"
	"github.com/andresuchdata/logistics-analytics/backend-go/pkg/logger"
	"github.com/gorilla/mux"
)

// Drive import API. It writes to the same Postgres store the main server
// reads and clears the shared dashboard caches after each import.
func main() {
	cfg := config.Load()
	logger.Setup(cfg.Server.LogLevel, cfg.Server.LogFormat)

	ctx := context.Background()

	driveService, err := drive.NewService(ctx, cfg.Drive.CredentialsJSON)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize Google Drive service")
	}

	db, err := postgres.NewDB(ctx, &cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	repo := postgres.NewRecordRepository(db)

	dashboardCache, err := cache.NewDashboardCache(cfg.Cache)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize dashboard cache")
	}
	clusterCache, err := cache.NewClusterCache(cfg.Cache)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize cluster cache")
	}
	analyticsService := service.NewAnalyticsService(repo, dashboardCache, clusterCache, cfg.Catalog, cfg.Analytics)
	importService := service.NewImportService(repo, analyticsService, nil, "")

	ingestService := drive.NewIngestService(driveService, importService, cfg.Drive.DownloadDir)

	r := mux.NewRouter()
	drive.NewHandler(driveService, driveService, ingestService, cfg.Drive.FolderID).RegisterRoutes(r)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods(http.MethodGet)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Log.Info().Str("addr", addr).Msg("Drive API starting")
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Log.Fatal().Err(err).Msg("Drive API stopped")
	}
}
