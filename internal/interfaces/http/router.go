package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studyforge/studyforge/internal/interfaces/http/middleware"
	"github.com/studyforge/studyforge/internal/interfaces/http/routes"
)

// SetupRoutes installs global middleware and every route group.
func (c *Container) SetupRoutes() {
	c.engine.Use(middleware.RequestID())
	c.engine.Use(middleware.Recovery(c.log))
	c.engine.Use(middleware.CustomLogger(c.log))
	c.engine.Use(middleware.Metrics(c.metrics))
	c.engine.Use(middleware.SecurityHeaders())
	c.engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))

	c.engine.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	c.engine.GET("/metrics", gin.WrapH(c.metrics.Handler()))

	var rateLimit gin.HandlerFunc
	if c.rateLimiter != nil {
		rateLimit = middleware.RateLimit(c.rateLimiter, c.log)
	}

	api := c.engine.Group("/api")

	routes.SetupAuthRoutes(api, &routes.AuthRouteConfig{
		AuthHandler: c.authHandler,
		RateLimit:   rateLimit,
	})

	routes.SetupPlanRoutes(api, &routes.PlanRouteConfig{
		PlanHandler: c.planHandler,
	})

	routes.SetupGenerationRoutes(api, &routes.GenerationRouteConfig{
		GenerationHandler: c.generationHandler,
		AuthMiddleware:    c.authMiddleware,
		RateLimit:         rateLimit,
	})

	routes.SetupAccountRoutes(api, &routes.AccountRouteConfig{
		AccountHandler:       c.accountHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
	})

	routes.SetupAdminRoutes(api, &routes.AdminRouteConfig{
		AdminHandler:         c.adminHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
	})
}

// Engine returns the configured gin engine.
func (c *Container) Engine() *gin.Engine {
	return c.engine
}
