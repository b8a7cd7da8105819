// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/crm-suite/backend/internal/integration/entrypoint/controller"
	"github.com/crm-suite/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine           *gin.Engine
	healthController *controller.HealthController
	reportController *controller.ReportController
	authMiddleware   *middleware.AuthMiddleware
	rateLimiter      *middleware.RateLimiter
}

// NewRouter creates a new router instance with all dependencies.
// A nil rate limiter disables rate limiting.
func NewRouter(
	healthController *controller.HealthController,
	reportController *controller.ReportController,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
) *Router {
	return &Router{
		healthController: healthController,
		reportController: reportController,
		authMiddleware:   authMiddleware,
		rateLimiter:      rateLimiter,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	r.engine = gin.Default()

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")

	// Report routes (require authentication)
	if r.reportController != nil && r.authMiddleware != nil {
		reports := v1.Group("/reports")
		reports.Use(r.authMiddleware.Authenticate())
		if r.rateLimiter != nil {
			reports.Use(r.rateLimiter.Middleware())
		}
		{
			reports.GET("/range", r.reportController.GetRange)
			reports.GET("/summary", r.reportController.GetSummary)
			reports.GET("/:module/trends", r.reportController.GetTrends)
			reports.GET("/:module/records", r.reportController.GetRecords)

			reports.POST("/digests", r.reportController.ScheduleDigest)
			reports.GET("/digests", r.reportController.ListDigests)
			reports.GET("/digests/:id", r.reportController.GetDigest)
		}
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
