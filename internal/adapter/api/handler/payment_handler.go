package handler

import (
	"encoding/json"

	"github.com/labstack/echo/v4"

	"slawn/pkg/errors"
	"slawn/pkg/response"
)

type PaymentHandler struct {
	orderService OrderService
}

func NewPaymentHandler(orderService OrderService) *PaymentHandler {
	return &PaymentHandler{
		orderService: orderService,
	}
}

type checkoutRequest struct {
	ItemID  string `json:"item_id" validate:"required"`
	OrderID string `json:"order_id"`
}

// checkoutEventRequest relays the payment window's terminal message untouched.
type checkoutEventRequest struct {
	ItemID  string          `json:"item_id" validate:"required"`
	OrderID string          `json:"order_id"`
	Event   json.RawMessage `json:"event"`
}

func (h *PaymentHandler) StartCheckout(c echo.Context) error {
	buyer, err := caller(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	session, err := h.orderService.StartCheckout(c.Request().Context(), buyer, req.ItemID, req.OrderID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, session)
}

func (h *PaymentHandler) HandleCheckoutEvent(c echo.Context) error {
	buyer, err := caller(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req checkoutEventRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	outcome, err := h.orderService.HandleCheckoutEvent(c.Request().Context(), buyer, req.Event, req.ItemID, req.OrderID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, outcome)
}
