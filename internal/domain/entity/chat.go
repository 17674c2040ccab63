package entity

import "time"

type ParticipantDetails struct {
	Name   string `json:"name" firestore:"name"`
	Avatar string `json:"avatar" firestore:"avatar"`
}

// Chat is the single conversation between two users. Its ID is derived from the
// participant pair, so both sides always land on the same document.
type Chat struct {
	ID                 string                        `json:"id" firestore:"-"`
	Participants       []string                      `json:"participants" firestore:"participants"`
	ParticipantDetails map[string]ParticipantDetails `json:"participant_details" firestore:"participantDetails"`
	LastMessage        string                        `json:"last_message" firestore:"lastMessage"`
	LastMessageTime    time.Time                     `json:"last_message_time" firestore:"lastMessageTime"`
	LastMessageSender  string                        `json:"last_message_sender" firestore:"lastMessageSender"`
	UnreadCount        map[string]int                `json:"unread_count" firestore:"unreadCount"`
	CreatedAt          time.Time                     `json:"created_at" firestore:"createdAt"`
	UpdatedAt          time.Time                     `json:"updated_at" firestore:"updatedAt"`
}

func (c *Chat) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// OtherParticipant returns the participant that is not userID.
func (c *Chat) OtherParticipant(userID string) string {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	if len(c.Participants) > 0 {
		return c.Participants[0]
	}
	return ""
}

// ConversationSummary is the list-view projection of a chat for one participant.
type ConversationSummary struct {
	ChatID              string    `json:"chat_id"`
	RecipientID         string    `json:"recipient_id"`
	RecipientName       string    `json:"recipient_name"`
	RecipientAvatar     string    `json:"recipient_avatar"`
	LastMessage         string    `json:"last_message"`
	LastMessageTime     time.Time `json:"last_message_time"`
	UnreadCount         int       `json:"unread_count"`
	IsLastMessageFromMe bool      `json:"is_last_message_from_me"`
}

func (c *Chat) SummaryFor(userID string) *ConversationSummary {
	other := c.OtherParticipant(userID)
	details := c.ParticipantDetails[other]

	name := details.Name
	if name == "" {
		name = "Unknown User"
	}
	last := c.LastMessage
	if last == "" {
		last = "No messages yet"
	}

	return &ConversationSummary{
		ChatID:              c.ID,
		RecipientID:         other,
		RecipientName:       name,
		RecipientAvatar:     details.Avatar,
		LastMessage:         last,
		LastMessageTime:     c.LastMessageTime,
		UnreadCount:         c.UnreadCount[userID],
		IsLastMessageFromMe: c.LastMessageSender == userID,
	}
}
