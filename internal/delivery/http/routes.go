package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/catalogcompare/backend/config"
	"github.com/catalogcompare/backend/internal/observability"
)

// SetupRouter creates and configures the Gin router. A nil limiter disables rate limiting.
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger, limiter Limiter) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware(logger))
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logger.Named("access")))
	if cfg.Metrics.Enabled {
		router.Use(MetricsMiddleware())
	}
	router.Use(SecurityHeadersMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.NoRoute(handler.RouteNotFound)

	router.GET("/health", handler.HealthCheck)
	if cfg.Metrics.Enabled {
		router.GET("/metrics", gin.WrapH(observability.Handler()))
	}

	api := router.Group("/api")
	if limiter != nil {
		api.Use(RateLimitMiddleware(limiter))
	}

	// API v1 routes
	v1 := api.Group("/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("", handler.ListProducts)

			products.GET("/compare", handler.CompareProducts)
			products.GET("/compare/detailed", handler.CompareDetailed)
			products.GET("/compare/visual", handler.CompareVisual)
			products.GET("/compare/matrix", handler.CompareMatrix)
			products.GET("/compare/recommendations", handler.CompareRecommendations)

			products.GET("/search", handler.SearchProducts)
			products.GET("/stats/overview", handler.GetStats)
			products.GET("/categories/list", handler.ListCategories)
			products.GET("/brands/list", handler.ListBrands)
			products.GET("/price-range", handler.GetPriceRange)
			products.GET("/category/:category", handler.ListByCategory)

			products.GET("/:id", handler.GetProduct)
		}
	}

	return router
}
