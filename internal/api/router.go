package api

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guttosm/investhelper/internal/middleware"
)

// RouterOptions carries the tunables of the middleware chain.
type RouterOptions struct {
	RequestTimeout     time.Duration
	RateLimitPerMinute int // 0 disables rate limiting
}

// NewRouter creates a Gin engine with routes configured.
// It receives a Handler instance with the metrics service and chart renderer
// already injected.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery, ErrorHandler,
//     per-IP RateLimiter, request Timeout).
//   - Mounts Swagger docs (/swagger/*any).
//   - Configures API v1 routes (/api/v1/metrics, /metrics/export,
//     /metrics/chart, /retirement).
//
// Note:
//   - Health and readiness endpoints (/healthz, /readyz) are registered in app.InitializeApp().
//
// Parameters:
//   - handler (*Handler): The HTTP handler with business logic.
//   - opts (RouterOptions): request timeout and per-client rate limit.
//
// Returns:
//   - *gin.Engine: Configured Gin router.
func NewRouter(handler *Handler, opts RouterOptions) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
		middleware.NewRateLimiter(opts.RateLimitPerMinute, time.Minute).Handler(),
		middleware.Timeout(opts.RequestTimeout),
	)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/metrics", handler.GetMetrics)
		v1.GET("/metrics/export", handler.ExportCSV)
		v1.GET("/metrics/chart", handler.GetChart)
		v1.GET("/retirement", handler.GetRetirement)
	}

	return router
}
