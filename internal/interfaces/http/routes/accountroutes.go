package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/studyforge/studyforge/internal/infrastructure/permission"
	"github.com/studyforge/studyforge/internal/interfaces/http/handlers"
	"github.com/studyforge/studyforge/internal/interfaces/http/middleware"
)

// AccountRouteConfig holds dependencies for self-service account routes.
type AccountRouteConfig struct {
	AccountHandler       *handlers.AccountHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

// SetupAccountRoutes configures account and subscription routes.
func SetupAccountRoutes(api *gin.RouterGroup, cfg *AccountRouteConfig) {
	account := api.Group("/account")
	account.Use(cfg.AuthMiddleware.RequireAuth())
	{
		account.GET("/status", cfg.AccountHandler.Status)
		account.GET("/stats", cfg.AccountHandler.Stats)
	}

	sub := api.Group("/subscription")
	sub.Use(cfg.AuthMiddleware.RequireAuth())
	{
		sub.POST("/upgrade",
			cfg.PermissionMiddleware.RequirePermission(permission.ResourceSubscription, permission.ActionUpgrade),
			cfg.AccountHandler.Upgrade)
		sub.POST("/downgrade",
			cfg.PermissionMiddleware.RequirePermission(permission.ResourceSubscription, permission.ActionDowngrade),
			cfg.AccountHandler.Downgrade)
	}
}
