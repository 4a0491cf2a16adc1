// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/salesmap/internal/api/handlers"
	"github.com/andresuchdata/salesmap/internal/api/middleware"
	"github.com/andresuchdata/salesmap/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	ReportService     *service.ReportService
	PriceGroupService *service.PriceGroupService
}

// maxUploadMemory bounds the multipart form kept in memory; larger parts spill to disk.
const maxUploadMemory = 64 << 20

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = maxUploadMemory

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
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

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.ReportService != nil {
			reportHandler := handlers.NewReportHandler(services.ReportService)
			reportGroup := apiGroup.Group("/reports")
			{
				reportGroup.GET("", reportHandler.ListRuns)
				reportGroup.POST("/mid-month", reportHandler.GenerateMidMonth)
				reportGroup.POST("/end-of-month", reportHandler.GenerateEndOfMonth)
				reportGroup.GET("/:id/download", reportHandler.Download)
			}
		}

		if services.PriceGroupService != nil {
			priceHandler := handlers.NewPriceGroupHandler(services.PriceGroupService)
			apiGroup.GET("/price-groups", priceHandler.Get)
			apiGroup.PUT("/price-groups", priceHandler.Replace)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
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
