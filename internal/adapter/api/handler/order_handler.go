package handler

import (
	"github.com/labstack/echo/v4"

	"slawn/internal/domain/entity"
	"slawn/pkg/errors"
	"slawn/pkg/response"
	"slawn/pkg/utils"
)

type OrderHandler struct {
	orderService OrderService
}

func NewOrderHandler(orderService OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// The address is validated by the order service so every bad field is reported together.
type createOrderRequest struct {
	ItemID          string                 `json:"item_id"`
	ShippingAddress entity.ShippingAddress `json:"shipping_address"`
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	buyer, err := caller(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if req.ItemID == "" {
		return response.Error(c, errors.Validation(map[string]string{"item_id": "item_id is required"}))
	}

	order, err := h.orderService.SubmitShippingOrder(c.Request().Context(), buyer, req.ItemID, req.ShippingAddress)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, order)
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	buyer, err := caller(c)
	if err != nil {
		return response.Error(c, err)
	}

	orders, err := h.orderService.ListBuyerOrders(c.Request().Context(), buyer, utils.GetLimit(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.List(c, orders, len(orders))
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	actor, err := caller(c)
	if err != nil {
		return response.Error(c, err)
	}

	order, err := h.orderService.GetOrder(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}

func (h *OrderHandler) CancelOrder(c echo.Context) error {
	actor, err := caller(c)
	if err != nil {
		return response.Error(c, err)
	}

	order, err := h.orderService.CancelOrder(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}

func (h *OrderHandler) ConfirmDelivered(c echo.Context) error {
	actor, err := caller(c)
	if err != nil {
		return response.Error(c, err)
	}

	order, err := h.orderService.MarkDelivered(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}

// ListPurchases is the buyer's payment history.
func (h *OrderHandler) ListPurchases(c echo.Context) error {
	buyer, err := caller(c)
	if err != nil {
		return response.Error(c, err)
	}

	purchases, err := h.orderService.ListPurchases(c.Request().Context(), buyer, utils.GetLimit(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.List(c, purchases, len(purchases))
}
