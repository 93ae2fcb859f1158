package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Conversation struct {
	Id            primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	Participants  []primitive.ObjectID `json:"participants" bson:"participants"`
	LastMessage   string               `json:"lastMessage" bson:"lastMessage"`
	LastMessageAt time.Time            `json:"lastMessageAt" bson:"lastMessageAt"`
}

type Message struct {
	Id           primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Conversation primitive.ObjectID `json:"conversation" bson:"conversation"`
	Sender       primitive.ObjectID `json:"sender" bson:"sender"`
	Recipient    primitive.ObjectID `json:"recipient" bson:"recipient"`
	Text         string             `json:"text" bson:"text"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	IsRead       bool               `json:"isRead" bson:"isRead"`
}

// ConversationView is a conversation with the other participant resolved
// and the caller's unread count attached.
type ConversationView struct {
	Conversation `bson:",inline"`
	OtherUser    *UserRef `json:"otherUser"`
	UnreadCount  int64    `json:"unreadCount"`
}
