package router

import (
	"github.com/labstack/echo/v4"

	"slawn/internal/adapter/api/handler"
	"slawn/internal/adapter/api/middleware"
)

func SetupWebSocketRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	wsHandler := handler.GetWebSocketHandler()

	streams := e.Group("/v1/ws")
	streams.Use(authMiddleware.AuthenticateStream)

	streams.GET("/chats", wsHandler.StreamConversations)
	streams.GET("/chats/:id", wsHandler.StreamMessages)
}
