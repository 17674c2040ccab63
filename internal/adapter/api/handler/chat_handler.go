package handler

import (
	"github.com/labstack/echo/v4"
	"google.golang.org/api/iterator"

	"slawn/internal/domain/entity"
	"slawn/pkg/errors"
	"slawn/pkg/response"
)

type ChatHandler struct {
	chatService ChatService
}

func NewChatHandler(chatService ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// RecipientID and Text are checked by the chat service so a missing
// recipient gets its own error code.
type sendMessageRequest struct {
	RecipientID string `json:"recipient_id"`
	Text        string `json:"text"`
}

type sendMessageResponse struct {
	MessageID string `json:"message_id,omitempty"`
	Sent      bool   `json:"sent"`
}

// GetUserChats drains a fresh query for the caller's conversations.
func (h *ChatHandler) GetUserChats(c echo.Context) error {
	user, err := caller(c)
	if err != nil {
		return response.Error(c, err)
	}

	iter := h.chatService.ListConversations(c.Request().Context(), user.ID)
	defer iter.Stop()

	summaries := make([]*entity.ConversationSummary, 0)
	for {
		summary, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return response.Error(c, err)
		}
		summaries = append(summaries, summary)
	}

	return response.List(c, summaries, len(summaries))
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	sender, err := caller(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	id, err := h.chatService.SendMessage(c.Request().Context(), sender, req.RecipientID, req.Text)
	if err != nil {
		return response.Error(c, err)
	}

	// messaging yourself is accepted and dropped
	if id == "" {
		return response.Success(c, sendMessageResponse{Sent: false})
	}

	return response.Created(c, sendMessageResponse{MessageID: id, Sent: true})
}

func (h *ChatHandler) MarkChatAsRead(c echo.Context) error {
	reader, err := caller(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.chatService.MarkRead(c.Request().Context(), c.Param("id"), reader.ID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Chat marked as read",
	})
}
