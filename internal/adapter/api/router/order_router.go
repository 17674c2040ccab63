package router

import (
	"github.com/labstack/echo/v4"

	"slawn/internal/adapter/api/handler"
	"slawn/internal/adapter/api/middleware"
)

func SetupOrderRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	orderHandler := handler.GetOrderHandler()

	orders := e.Group("/v1/orders")
	orders.Use(authMiddleware.Authenticate)

	orders.POST("", orderHandler.CreateOrder)
	orders.GET("", orderHandler.ListOrders)
	orders.GET("/:id", orderHandler.GetOrder)
	orders.PUT("/:id/cancel", orderHandler.CancelOrder)
	orders.PUT("/:id/delivered", orderHandler.ConfirmDelivered)

	e.GET("/v1/purchases", orderHandler.ListPurchases, authMiddleware.Authenticate)
}
