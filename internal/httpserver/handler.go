package httpserver

import (
	"context"

	"calendar-assistant/internal/model"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (srv HTTPServer) mapHandlers() error {
	srv.registerMiddlewares()
	srv.registerSystemRoutes()

	if err := srv.registerDomainRoutes(); err != nil {
		return err
	}

	return nil
}

func (srv HTTPServer) registerMiddlewares() {
	// CORS recovery
	srv.gin.Use(gin.Recovery())

	ctx := context.Background()
	if srv.environment == string(model.EnvironmentProduction) {
		srv.l.Infof(ctx, "CORS mode: production")
	} else {
		srv.l.Infof(ctx, "CORS mode: %s", srv.environment)
	}
}

func (srv HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)

	srv.gin.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))
}

// registerDomainRoutes registers all domain routes.
func (srv HTTPServer) registerDomainRoutes() error {
	ctx := context.Background()

	if srv.chatHandler != nil {
		api := srv.gin.Group("/api/v1")
		chatGroup := api.Group("/chat")
		if srv.rateLimiter != nil {
			chatGroup.Use(srv.rateLimiter.Middleware())
		}
		chatGroup.POST("/message", srv.chatHandler.HandleChatMessage)
		chatGroup.POST("/reset", srv.chatHandler.HandleResetSession)
		srv.l.Infof(ctx, "Chat routes registered at POST /api/v1/chat")
	} else {
		srv.l.Infof(ctx, "Chat handler not configured, skipping chat routes")
	}

	return nil
}
