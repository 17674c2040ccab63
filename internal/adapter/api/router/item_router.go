package router

import (
	"github.com/labstack/echo/v4"

	"slawn/internal/adapter/api/handler"
	"slawn/internal/adapter/api/middleware"
	"slawn/internal/infrastructure/ratelimit"
)

func SetupItemRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter middleware.Limiter) {
	itemHandler := handler.GetItemHandler()

	// Public catalogue, throttled per client IP
	items := e.Group("/v1/items", middleware.RateLimit(limiter, ratelimit.ActionRequest))
	items.GET("", itemHandler.ListItems)
	items.GET("/:id", itemHandler.GetItem)
	items.GET("/:id/route", itemHandler.GetPurchaseRoute)

	items.POST("", itemHandler.CreateItem, authMiddleware.Authenticate)

	stores := e.Group("/v1/stores", middleware.RateLimit(limiter, ratelimit.ActionRequest))
	stores.PUT("/me/about", itemHandler.UpdateStoreAbout, authMiddleware.Authenticate)
	stores.GET("/:id", itemHandler.GetStore)
}
