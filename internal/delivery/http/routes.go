package http

import (
	"github.com/foodbuddy/backend/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(MaintenanceMiddleware(cfg.Server.MaintenanceMode))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(MetricsMiddleware())

	// Operational endpoints are not rate limited
	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	if cfg.RateLimit.PerIP > 0 {
		v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP, cfg.RateLimit.Burst))
	}
	{
		analyze := v1.Group("/analyze")
		{
			analyze.POST("", handler.Analyze)
			analyze.POST("/image", handler.AnalyzeImage)
		}

		compare := v1.Group("/compare")
		{
			compare.POST("", handler.Compare)
			compare.POST("/sessions", handler.StartCompareSession)
			compare.GET("/sessions/:id", handler.GetCompareSession)
			compare.POST("/sessions/:id/submit", handler.SubmitCompareSession)
			compare.DELETE("/sessions/:id", handler.ExitCompareSession)
		}

		history := v1.Group("/history")
		{
			history.GET("", handler.ListHistory)
			history.GET("/stats", handler.HistoryStats)
			history.GET("/:id", handler.GetHistoryItem)
			history.GET("/:id/export", handler.ExportHistoryItem)
			history.DELETE("", handler.ClearHistory)
		}

		shopping := v1.Group("/shopping-list")
		{
			shopping.GET("", handler.ListShoppingItems)
			shopping.POST("", handler.AddShoppingItem)
			shopping.DELETE("/items", handler.RemoveShoppingItem)
			shopping.DELETE("", handler.ClearShoppingList)
		}
	}

	return router
}
