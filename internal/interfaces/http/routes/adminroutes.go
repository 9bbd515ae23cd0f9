package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/studyforge/studyforge/internal/infrastructure/permission"
	"github.com/studyforge/studyforge/internal/interfaces/http/handlers"
	"github.com/studyforge/studyforge/internal/interfaces/http/middleware"
)

// AdminRouteConfig holds dependencies for admin routes.
type AdminRouteConfig struct {
	AdminHandler         *handlers.AdminHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

// SetupAdminRoutes configures operator routes guarded by casbin policies.
func SetupAdminRoutes(api *gin.RouterGroup, cfg *AdminRouteConfig) {
	accounts := api.Group("/admin/accounts")
	accounts.Use(cfg.AuthMiddleware.RequireAuth())
	{
		accounts.POST("/:id/reset-usage",
			cfg.PermissionMiddleware.RequirePermission(permission.ResourceAccount, permission.ActionResetUsage),
			cfg.AdminHandler.ResetUsage)
		accounts.POST("/:id/upgrade",
			cfg.PermissionMiddleware.RequirePermission(permission.ResourceAccount, permission.ActionUpgrade),
			cfg.AdminHandler.Upgrade)
	}
}
