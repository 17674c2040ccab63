package entity

import "time"

const MaxMessageLength = 1000

type Message struct {
	ID          string    `json:"id" firestore:"-"`
	ChatID      string    `json:"chat_id" firestore:"chatId"`
	Text        string    `json:"text" firestore:"text"`
	SenderID    string    `json:"sender_id" firestore:"senderId"`
	RecipientID string    `json:"recipient_id" firestore:"recipientId"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt,serverTimestamp"`
	Read        bool      `json:"read" firestore:"read"`
}
