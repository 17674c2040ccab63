package router

import (
	"github.com/labstack/echo/v4"

	"slawn/internal/adapter/api/handler"
	"slawn/internal/adapter/api/middleware"
)

func SetupAdminRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	adminHandler := handler.GetAdminHandler()

	admin := e.Group("/v1/admin")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)

	admin.PUT("/orders/:id/stage", adminHandler.AdvanceOrderStage)
	admin.GET("/transactions", adminHandler.ListTransactions)
	admin.POST("/authors/refresh", adminHandler.RefreshAuthors)
}
