package router

import (
	"github.com/labstack/echo/v4"

	"slawn/internal/adapter/api/handler"
	"slawn/internal/adapter/api/middleware"
)

// SetupChatRouter sets up all chat routes except the live streams
func SetupChatRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	chatHandler := handler.GetChatHandler()

	chatGroup := e.Group("/v1/chats")
	chatGroup.Use(authMiddleware.Authenticate)

	chatGroup.GET("", chatHandler.GetUserChats)
	chatGroup.POST("/messages", chatHandler.SendMessage)
	chatGroup.PUT("/:id/read", chatHandler.MarkChatAsRead)
}
