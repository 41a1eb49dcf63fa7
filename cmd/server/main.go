// backend-go/cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/api"
	"github.com/andresuchdata/logistics-analytics/backend-go/internal/cache"
	"github.com/andresuchdata/logistics-analytics/backend-go/internal/config"
	"github.com/andresuchdata/logistics-analytics/backend-go/internal/repository"
	"github.com/andresuchdata/logistics-analytics/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/logistics-analytics/backend-go/internal/service"
	"github.com/andresuchdata/logistics-analytics/backend-go/internal/storage"
	"github.com/andresuchdata/logistics-analytics/backend-go/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	logger.Setup(cfg.Server.LogLevel, cfg.Server.LogFormat)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	repo, closeRepo, err := newRepository(ctx, cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize record store")
	}
	defer closeRepo()

	dashboardCache, err := cache.NewDashboardCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Dashboard cache unavailable, continuing without it")
		dashboardCache = cache.NewNoopDashboardCache()
	}
	clusterCache, err := cache.NewClusterCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Cluster cache unavailable, continuing without it")
		clusterCache = cache.NewNoopClusterCache()
	}

	var archive storage.ObjectStorage
	if cfg.Storage.Enabled {
		client, err := storage.NewMinioClient(cfg.Storage)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to initialize object storage")
		}
		archive = client
	}

	analyticsService := service.NewAnalyticsService(repo, dashboardCache, clusterCache, cfg.Catalog, cfg.Analytics)
	importService := service.NewImportService(repo, analyticsService, archive, cfg.Storage.ArchivePrefix)

	router := api.NewRouter(&api.Services{
		AnalyticsService: analyticsService,
		ImportService:    importService,
		MaxUploadMB:      cfg.App.MaxUploadMB,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().
			Str("port", cfg.Server.Port).
			Str("store", cfg.App.Store).
			Bool("cache", cfg.Cache.Enabled).
			Bool("archive", archive != nil).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	// in-flight requests get 5 seconds
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

// newRepository opens the configured record store. The returned func
// releases it.
func newRepository(ctx context.Context, cfg *config.Config) (repository.RecordRepository, func(), error) {
	switch cfg.App.Store {
	case "", "memory":
		return repository.NewMemoryRepository(), func() {}, nil
	case "postgres":
		db, err := postgres.NewDB(ctx, &cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return postgres.NewRecordRepository(db), func() { db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown APP_STORE %q", cfg.App.Store)
	}
}
