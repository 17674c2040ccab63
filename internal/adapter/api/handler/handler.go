package handler

import (
	"slawn/internal/infrastructure/websocket"
)

var (
	healthHandler    *HealthHandler
	itemHandler      *ItemHandler
	orderHandler     *OrderHandler
	paymentHandler   *PaymentHandler
	chatHandler      *ChatHandler
	websocketHandler *WebSocketHandler
	adminHandler     *AdminHandler
)

func Setup(
	checks map[string]HealthCheck,
	itemService ItemService,
	orderService OrderService,
	chatService ChatService,
	wsManager *websocket.Manager,
) {
	var streams StreamCounter
	if wsManager != nil {
		streams = wsManager
	}
	healthHandler = NewHealthHandler(checks, streams)
	itemHandler = NewItemHandler(itemService, orderService)
	orderHandler = NewOrderHandler(orderService)
	paymentHandler = NewPaymentHandler(orderService)
	chatHandler = NewChatHandler(chatService)
	websocketHandler = NewWebSocketHandler(chatService, wsManager)
	adminHandler = NewAdminHandler(orderService, itemService)
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}

func GetItemHandler() *ItemHandler {
	return itemHandler
}

func GetOrderHandler() *OrderHandler {
	return orderHandler
}

func GetPaymentHandler() *PaymentHandler {
	return paymentHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func GetWebSocketHandler() *WebSocketHandler {
	return websocketHandler
}

func GetAdminHandler() *AdminHandler {
	return adminHandler
}
