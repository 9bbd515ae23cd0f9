package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/studyforge/studyforge/internal/interfaces/http/handlers"
	"github.com/studyforge/studyforge/internal/interfaces/http/middleware"
)

// GenerationRouteConfig holds dependencies for generation routes.
type GenerationRouteConfig struct {
	GenerationHandler *handlers.GenerationHandler
	AuthMiddleware    *middleware.AuthMiddleware
	RateLimit         gin.HandlerFunc // may be nil
}

// SetupGenerationRoutes configures the generation endpoints. Callers may
// be anonymous; a valid token attributes the call to an account.
func SetupGenerationRoutes(api *gin.RouterGroup, cfg *GenerationRouteConfig) {
	chat := api.Group("/chat")
	chat.Use(cfg.AuthMiddleware.OptionalAuth())
	if cfg.RateLimit != nil {
		chat.Use(cfg.RateLimit)
	}
	{
		chat.POST("", cfg.GenerationHandler.Chat)
		chat.POST("/quiz", cfg.GenerationHandler.Quiz)
		chat.POST("/evaluation", cfg.GenerationHandler.Evaluate)
		// Legacy path kept for existing clients.
		chat.POST("/questao", cfg.GenerationHandler.Evaluate)
		chat.POST("/mindmap", cfg.GenerationHandler.MindMap)
	}

	api.GET("/artifacts", cfg.AuthMiddleware.OptionalAuth(), cfg.GenerationHandler.ListArtifacts)
}
