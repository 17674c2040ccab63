package handler

import (
	"context"
	"encoding/json"
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	ws "slawn/internal/infrastructure/websocket"
	"slawn/internal/usecase"
	"slawn/pkg/errors"
	"slawn/pkg/logger"
	"slawn/pkg/response"
)

type WebSocketHandler struct {
	chatService ChatService
	wsManager   *ws.Manager
	upgrader    gorillaws.Upgrader
}

// streamFrame is what every text frame on a stream carries.
type streamFrame struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

func NewWebSocketHandler(chatService ChatService, wsManager *ws.Manager) *WebSocketHandler {
	return &WebSocketHandler{
		chatService: chatService,
		wsManager:   wsManager,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// StreamMessages pushes the whole thread, oldest first, on every change.
// Participation is checked before the upgrade so a stranger gets a plain 403.
func (h *WebSocketHandler) StreamMessages(c echo.Context) error {
	reader, err := caller(c)
	if err != nil {
		return response.Error(c, err)
	}
	chatID := c.Param("id")

	// the stream outlives the request context
	ctx, cancel := context.WithCancel(context.Background())
	sub, err := h.chatService.StreamMessages(ctx, chatID, reader.ID)
	if err != nil {
		cancel()
		return response.Error(c, err)
	}

	client, err := h.open(c, reader.ID, "messages:"+chatID)
	if err != nil {
		sub.Cancel()
		cancel()
		return nil
	}

	go forward(client, sub, "messages", cancel)
	return nil
}

// StreamConversations pushes the caller's conversation list on every change.
func (h *WebSocketHandler) StreamConversations(c echo.Context) error {
	user, err := caller(c)
	if err != nil {
		return response.Error(c, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	sub := h.chatService.WatchConversations(ctx, user.ID)

	client, err := h.open(c, user.ID, "conversations")
	if err != nil {
		sub.Cancel()
		cancel()
		return nil
	}

	go forward(client, sub, "conversations", cancel)
	return nil
}

// open upgrades the connection. On failure the upgrader has already written
// the HTTP error, so callers only clean up.
func (h *WebSocketHandler) open(c echo.Context, userID, stream string) (*ws.Client, error) {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Warn("Stream %s upgrade failed for %s: %v", stream, userID, err)
		return nil, errors.Internal("Failed to upgrade connection", err)
	}

	client := ws.NewClient(userID, stream, conn)
	h.wsManager.Register <- client

	go client.ReadPump(h.wsManager)
	go client.WritePump()

	return client, nil
}

// forward relays subscription updates to the client until either side ends.
func forward[T any](client *ws.Client, sub *usecase.Subscription[T], kind string, cancel context.CancelFunc) {
	defer cancel()
	defer sub.Cancel()

	for {
		select {
		case <-client.Done():
			return

		case update, ok := <-sub.Updates():
			if !ok {
				if err := sub.Err(); err != nil {
					if frame, mErr := json.Marshal(streamFrame{Type: "error", Error: "stream interrupted"}); mErr == nil {
						client.Deliver(frame)
					}
				}
				client.Close()
				return
			}

			frame, err := json.Marshal(streamFrame{Type: kind, Data: update})
			if err != nil {
				logger.Error("Failed to encode %s frame for %s: %v", kind, client.UserID, err)
				continue
			}
			if !client.Deliver(frame) {
				return
			}
		}
	}
}
