package handler

import (
	"github.com/labstack/echo/v4"

	"slawn/internal/domain/entity"
	"slawn/pkg/errors"
	"slawn/pkg/response"
	"slawn/pkg/utils"
)

type AdminHandler struct {
	orderService OrderService
	itemService  ItemService
}

func NewAdminHandler(orderService OrderService, itemService ItemService) *AdminHandler {
	return &AdminHandler{
		orderService: orderService,
		itemService:  itemService,
	}
}

type advanceStageRequest struct {
	Status string `json:"status" validate:"required,oneof=started delivery done rejected"`
}

func (h *AdminHandler) AdvanceOrderStage(c echo.Context) error {
	admin, err := caller(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req advanceStageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	order, err := h.orderService.AdvanceOrderStage(c.Request().Context(), admin, c.Param("id"), entity.OrderStatus(req.Status))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}

func (h *AdminHandler) ListTransactions(c echo.Context) error {
	admin, err := caller(c)
	if err != nil {
		return response.Error(c, err)
	}

	txns, err := h.orderService.ListTransactions(c.Request().Context(), admin, utils.GetLimit(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.List(c, txns, len(txns))
}

// RefreshAuthors clears the cached seller names so the next listing reloads them.
func (h *AdminHandler) RefreshAuthors(c echo.Context) error {
	if err := h.itemService.RefreshAuthors(c.Request().Context()); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Author cache cleared",
	})
}
