package repository

import (
	"context"

	"slawn/internal/domain/entity"
)

type ChatRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Chat, error)

	// SendMessage appends msg to the conversation and updates its summary in
	// one transaction. seed is written when the conversation does not exist yet.
	SendMessage(ctx context.Context, seed *entity.Chat, msg *entity.Message) error

	// ResetUnread zeroes the unread counter of userID in the conversation.
	ResetUnread(ctx context.Context, chatID, userID string) error

	// ListByParticipant walks the user's conversations, most recent first.
	// The iterator returns iterator.Done once exhausted.
	ListByParticipant(ctx context.Context, userID string) ChatIterator

	WatchChats(ctx context.Context, userID string) SnapshotIterator[*entity.Chat]
	WatchMessages(ctx context.Context, chatID string) SnapshotIterator[*entity.Message]
}

type ChatIterator interface {
	Next() (*entity.Chat, error)
	Stop()
}
