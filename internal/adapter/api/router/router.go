package router

import (
	"github.com/labstack/echo/v4"

	"slawn/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware, limiter middleware.Limiter) {
	SetupHealthRouter(e)
	SetupItemRouter(e, authMiddleware, limiter)
	SetupOrderRouter(e, authMiddleware)
	SetupPaymentRouter(e, authMiddleware)
	SetupChatRouter(e, authMiddleware)
	SetupWebSocketRouter(e, authMiddleware)
	SetupAdminRouter(e, authMiddleware, adminMiddleware)
}
