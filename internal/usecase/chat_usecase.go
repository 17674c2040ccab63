package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"slawn/internal/domain/entity"
	"slawn/internal/domain/repository"
	"slawn/internal/infrastructure/metrics"
	"slawn/internal/infrastructure/ratelimit"
	"slawn/pkg/errors"
	"slawn/pkg/logger"
)

type ChatUseCase struct {
	chatRepo      repository.ChatRepository
	characterRepo repository.CharacterRepository
	rateLimiter   RateLimiter
	metrics       *metrics.AppMetrics
	now           func() time.Time
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	characterRepo repository.CharacterRepository,
	rateLimiter RateLimiter,
	appMetrics *metrics.AppMetrics,
) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:      chatRepo,
		characterRepo: characterRepo,
		rateLimiter:   rateLimiter,
		metrics:       appMetrics,
		now:           time.Now,
	}
}

// ConversationID is the same for both members of a pair.
func ConversationID(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return ids[0] + "_" + ids[1]
}

// SendMessage appends a message to the conversation between sender and
// recipient, creating the conversation on first contact. Messaging yourself
// is silently ignored and returns an empty id.
func (uc *ChatUseCase) SendMessage(ctx context.Context, sender *entity.Principal, recipientID, text string) (string, error) {
	recipientID = strings.TrimSpace(recipientID)
	if recipientID == "" {
		return "", errors.RecipientRequired()
	}
	if recipientID == sender.ID {
		return "", nil
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.Validation(map[string]string{"text": "text is required"})
	}
	if utf8.RuneCountInString(text) > entity.MaxMessageLength {
		return "", errors.Validation(map[string]string{
			"text": fmt.Sprintf("text must be at most %d characters", entity.MaxMessageLength),
		})
	}

	if ok, wait := uc.rateLimiter.Allow(sender.ID, ratelimit.ActionSendMessage); !ok {
		uc.metrics.Inc(ctx, uc.metrics.MessagesRateLimited)
		return "", errors.TooManyRequests(fmt.Sprintf("Too many messages, try again in %s", wait.Round(time.Second)))
	}

	now := uc.now()
	chatID := ConversationID(sender.ID, recipientID)
	participants := []string{sender.ID, recipientID}
	sort.Strings(participants)

	seed := &entity.Chat{
		ID:                 chatID,
		Participants:       participants,
		ParticipantDetails: uc.participantDetails(ctx, sender, recipientID),
		LastMessage:        text,
		LastMessageTime:    now,
		LastMessageSender:  sender.ID,
		UnreadCount: map[string]int{
			sender.ID:   0,
			recipientID: 1,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	msg := &entity.Message{
		ChatID:      chatID,
		Text:        text,
		SenderID:    sender.ID,
		RecipientID: recipientID,
	}

	if err := uc.chatRepo.SendMessage(ctx, seed, msg); err != nil {
		return "", err
	}

	uc.metrics.Inc(ctx, uc.metrics.MessagesSent)
	return msg.ID, nil
}

// participantDetails snapshots display names and avatars from seller
// profiles, falling back to the sender's own token claims.
func (uc *ChatUseCase) participantDetails(ctx context.Context, sender *entity.Principal, recipientID string) map[string]entity.ParticipantDetails {
	details := map[string]entity.ParticipantDetails{
		sender.ID: {Name: sender.Name, Avatar: sender.Avatar},
	}

	profiles, err := uc.characterRepo.GetByUserIDs(ctx, []string{sender.ID, recipientID})
	if err != nil {
		logger.Warn("Failed to load participant profiles for %s: %v", sender.ID, err)
		return details
	}

	if c, ok := profiles[sender.ID]; ok && c.Author != "" {
		details[sender.ID] = entity.ParticipantDetails{Name: c.Author, Avatar: firstNonEmpty(c.Avatar, sender.Avatar)}
	}
	if c, ok := profiles[recipientID]; ok {
		details[recipientID] = entity.ParticipantDetails{Name: c.Author, Avatar: c.Avatar}
	}

	return details
}

// MarkRead clears the reader's unread counter.
func (uc *ChatUseCase) MarkRead(ctx context.Context, chatID, readerID string) error {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return err
	}
	if !chat.HasParticipant(readerID) {
		return errors.Forbidden("Not a participant of this conversation", nil)
	}
	if chat.UnreadCount[readerID] == 0 {
		return nil
	}
	return uc.chatRepo.ResetUnread(ctx, chatID, readerID)
}

// ConversationIterator yields summaries one at a time and returns
// iterator.Done when exhausted.
type ConversationIterator struct {
	userID string
	iter   repository.ChatIterator
}

func (it *ConversationIterator) Next() (*entity.ConversationSummary, error) {
	chat, err := it.iter.Next()
	if err != nil {
		return nil, err
	}
	return chat.SummaryFor(it.userID), nil
}

func (it *ConversationIterator) Stop() {
	it.iter.Stop()
}

// ListConversations runs a fresh query on every call, most recent first.
func (uc *ChatUseCase) ListConversations(ctx context.Context, userID string) *ConversationIterator {
	return &ConversationIterator{
		userID: userID,
		iter:   uc.chatRepo.ListByParticipant(ctx, userID),
	}
}

// WatchConversations streams the user's conversation list as it changes.
func (uc *ChatUseCase) WatchConversations(ctx context.Context, userID string) *Subscription[[]*entity.ConversationSummary] {
	return subscribe(ctx,
		func(ctx context.Context) repository.SnapshotIterator[*entity.Chat] {
			return uc.chatRepo.WatchChats(ctx, userID)
		},
		func(_ context.Context, chats []*entity.Chat) ([]*entity.ConversationSummary, error) {
			out := make([]*entity.ConversationSummary, 0, len(chats))
			for _, chat := range chats {
				out = append(out, chat.SummaryFor(userID))
			}
			return out, nil
		},
	)
}

// StreamMessages streams a conversation oldest first. Each emission also
// marks the conversation read for the reader.
func (uc *ChatUseCase) StreamMessages(ctx context.Context, chatID, readerID string) (*Subscription[[]*entity.Message], error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	switch {
	case err == nil:
		if !chat.HasParticipant(readerID) {
			return nil, errors.Forbidden("Not a participant of this conversation", nil)
		}
	case errors.Is(err, errors.CodeNotFound):
		// the thread may be opened before its first message
		if !idContains(chatID, readerID) {
			return nil, errors.Forbidden("Not a participant of this conversation", nil)
		}
	default:
		return nil, err
	}

	return subscribe(ctx,
		func(ctx context.Context) repository.SnapshotIterator[*entity.Message] {
			return uc.chatRepo.WatchMessages(ctx, chatID)
		},
		func(ctx context.Context, messages []*entity.Message) ([]*entity.Message, error) {
			if len(messages) > 0 {
				if err := uc.MarkRead(ctx, chatID, readerID); err != nil && !errors.Is(err, errors.CodeNotFound) {
					logger.Warn("Failed to mark %s read for %s: %v", chatID, readerID, err)
				}
			}
			return messages, nil
		},
	), nil
}

func idContains(chatID, userID string) bool {
	for _, part := range strings.Split(chatID, "_") {
		if part == userID {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
