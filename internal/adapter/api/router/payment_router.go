package router

import (
	"github.com/labstack/echo/v4"

	"slawn/internal/adapter/api/handler"
	"slawn/internal/adapter/api/middleware"
)

func SetupPaymentRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	paymentHandler := handler.GetPaymentHandler()

	payments := e.Group("/v1/payments")
	payments.Use(authMiddleware.Authenticate)

	payments.POST("/checkout", paymentHandler.StartCheckout)
	payments.POST("/events", paymentHandler.HandleCheckoutEvent)
}
