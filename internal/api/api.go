// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/api/handlers"
	"github.com/andresuchdata/logistics-analytics/backend-go/internal/api/middleware"
	"github.com/andresuchdata/logistics-analytics/backend-go/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	AnalyticsService *service.AnalyticsService
	ImportService    *service.ImportService
	MaxUploadMB      int64
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	apiGroup := router.Group("/api/v1")
	apiGroup.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if services == nil {
		return router
	}

	if services.AnalyticsService != nil {
		analyticsHandler := handlers.NewAnalyticsHandler(services.AnalyticsService)
		analyticsGroup := apiGroup.Group("/analytics")
		{
			analyticsGroup.GET("/dashboard", analyticsHandler.GetDashboard)
			analyticsGroup.GET("/kpis", analyticsHandler.GetKPIs)
			analyticsGroup.GET("/breakdown", analyticsHandler.GetBreakdown)
			analyticsGroup.GET("/forecast", analyticsHandler.GetForecast)
			analyticsGroup.GET("/clusters", analyticsHandler.GetClusters)
			analyticsGroup.GET("/trend", analyticsHandler.GetTrend)
			analyticsGroup.GET("/ledger", analyticsHandler.GetLedger)
		}

		supplierHandler := handlers.NewSupplierHandler(services.AnalyticsService)
		apiGroup.GET("/suppliers", supplierHandler.GetSuppliers)
		apiGroup.GET("/suppliers/:name", supplierHandler.GetSupplier)
		apiGroup.GET("/catalog", supplierHandler.GetCatalog)
	}

	if services.ImportService != nil {
		importHandler := handlers.NewImportHandler(services.ImportService, services.MaxUploadMB)
		apiGroup.POST("/import", importHandler.Import)
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		for _, part := range strings.Split(origin, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
