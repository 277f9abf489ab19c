package routes

import (
	"github.com/gin-gonic/gin"

	"sg44_backend/internal/handlers"
	"sg44_backend/internal/logger"
	"sg44_backend/internal/metrics"
)

// RegisterRoutes mounts the API under /api/v1 plus the operational endpoints.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	requireAuth gin.HandlerFunc,
	m *metrics.Metrics,
) {
	ginRouter.GET("/healthz", appHandlers.HealthHandler.Healthz)
	ginRouter.GET("/metrics", gin.WrapH(m.Handler()))

	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.UserHandler.RegisterRoutes(api, requireAuth)
		appHandlers.RegistrationHandler.RegisterRoutes(api, requireAuth)
		appHandlers.AdminRegistrationHandler.RegisterRoutes(api, requireAuth)
		appHandlers.NewsHandler.RegisterRoutes(api, requireAuth)
		appHandlers.SubmissionHandler.RegisterRoutes(api, requireAuth)
	}

	logger.Info("HTTP routes registered", "routes", len(ginRouter.Routes()))
}
