package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"slawn/internal/domain/entity"
	"slawn/internal/domain/repository"
	"slawn/pkg/errors"
)

const (
	chatsCollection    = "chats"
	messagesCollection = "messages"
)

type firestoreChatRepository struct {
	client *firestore.Client
}

func NewFirestoreChatRepository(client *firestore.Client) repository.ChatRepository {
	return &firestoreChatRepository{
		client: client,
	}
}

func (r *firestoreChatRepository) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	doc, err := r.client.Collection(chatsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Chat", err)
		}
		return nil, errors.Internal("Failed to get chat", err)
	}

	return chatFromDoc(doc)
}

func (r *firestoreChatRepository) SendMessage(ctx context.Context, seed *entity.Chat, msg *entity.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	msg.ChatID = seed.ID

	chatRef := r.client.Collection(chatsCollection).Doc(seed.ID)
	msgRef := chatRef.Collection(messagesCollection).Doc(msg.ID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		_, err := tx.Get(chatRef)
		switch {
		case status.Code(err) == codes.NotFound:
			if err := tx.Create(chatRef, seed); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			updates := []firestore.Update{
				{Path: "lastMessage", Value: msg.Text},
				{Path: "lastMessageTime", Value: firestore.ServerTimestamp},
				{Path: "lastMessageSender", Value: msg.SenderID},
				{Path: "updatedAt", Value: time.Now()},
				{FieldPath: firestore.FieldPath{"unreadCount", msg.RecipientID}, Value: firestore.Increment(1)},
			}
			for uid, details := range seed.ParticipantDetails {
				updates = append(updates, firestore.Update{
					FieldPath: firestore.FieldPath{"participantDetails", uid},
					Value:     details,
				})
			}
			if err := tx.Update(chatRef, updates); err != nil {
				return err
			}
		}

		return tx.Create(msgRef, msg)
	})
	if err != nil {
		return errors.Internal("Failed to send message", err)
	}

	return nil
}

func (r *firestoreChatRepository) ResetUnread(ctx context.Context, chatID, userID string) error {
	_, err := r.client.Collection(chatsCollection).Doc(chatID).Update(ctx, []firestore.Update{
		{FieldPath: firestore.FieldPath{"unreadCount", userID}, Value: 0},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Chat", err)
		}
		return errors.Internal("Failed to mark chat as read", err)
	}

	return nil
}

func (r *firestoreChatRepository) participantQuery(userID string) firestore.Query {
	return r.client.Collection(chatsCollection).
		Where("participants", "array-contains", userID).
		OrderBy("lastMessageTime", firestore.Desc)
}

func (r *firestoreChatRepository) ListByParticipant(ctx context.Context, userID string) repository.ChatIterator {
	return &chatIterator{iter: r.participantQuery(userID).Documents(ctx)}
}

func (r *firestoreChatRepository) WatchChats(ctx context.Context, userID string) repository.SnapshotIterator[*entity.Chat] {
	return &snapshotIterator[*entity.Chat]{
		iter:   r.participantQuery(userID).Snapshots(ctx),
		decode: chatFromDoc,
	}
}

func (r *firestoreChatRepository) WatchMessages(ctx context.Context, chatID string) repository.SnapshotIterator[*entity.Message] {
	query := r.client.Collection(chatsCollection).Doc(chatID).
		Collection(messagesCollection).
		OrderBy("createdAt", firestore.Asc)

	return &snapshotIterator[*entity.Message]{
		iter:   query.Snapshots(ctx),
		decode: messageFromDoc,
	}
}

type chatIterator struct {
	iter *firestore.DocumentIterator
}

// Next passes iterator.Done through untouched.
func (it *chatIterator) Next() (*entity.Chat, error) {
	doc, err := it.iter.Next()
	if err != nil {
		return nil, err
	}
	return chatFromDoc(doc)
}

func (it *chatIterator) Stop() {
	it.iter.Stop()
}

func chatFromDoc(doc *firestore.DocumentSnapshot) (*entity.Chat, error) {
	var chat entity.Chat
	if err := doc.DataTo(&chat); err != nil {
		return nil, errors.Internal("Failed to parse chat data", err)
	}
	chat.ID = doc.Ref.ID
	return &chat, nil
}

func messageFromDoc(doc *firestore.DocumentSnapshot) (*entity.Message, error) {
	var msg entity.Message
	if err := doc.DataTo(&msg); err != nil {
		return nil, errors.Internal("Failed to parse message data", err)
	}
	msg.ID = doc.Ref.ID
	return &msg, nil
}
