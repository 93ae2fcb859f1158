package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Notification struct {
	Id                primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	Recipient         primitive.ObjectID  `json:"recipient" bson:"recipient"`
	Sender            primitive.ObjectID  `json:"sender" bson:"sender"`
	Type              NotificationType    `json:"type" bson:"type"`
	Message           string              `json:"message" bson:"message"`
	RelatedPost       *primitive.ObjectID `json:"relatedPost,omitempty" bson:"relatedPost,omitempty"`
	RelatedConnection *primitive.ObjectID `json:"relatedConnection,omitempty" bson:"relatedConnection,omitempty"`
	RelatedComment    *primitive.ObjectID `json:"relatedComment,omitempty" bson:"relatedComment,omitempty"`
	IsRead            bool                `json:"isRead" bson:"isRead"`
	CreatedAt         time.Time           `json:"createdAt" bson:"createdAt"`
	ReadAt            *time.Time          `json:"readAt,omitempty" bson:"readAt,omitempty"`
}

type NotificationType string

const (
	NotificationTypeConnectionRequest    NotificationType = "connection_request"
	NotificationTypeConnectionAccepted   NotificationType = "connection_accepted"
	NotificationTypePostLike             NotificationType = "post_like"
	NotificationTypePostComment          NotificationType = "post_comment"
	NotificationTypeConnectionSuggestion NotificationType = "connection_suggestion"
)

// NotificationView is a notification shaped for the response body: the
// sender resolved to a user summary, null when the account is gone.
type NotificationView struct {
	Id                primitive.ObjectID  `json:"_id"`
	Recipient         primitive.ObjectID  `json:"recipient"`
	Sender            *UserRef            `json:"sender"`
	Type              NotificationType    `json:"type"`
	Message           string              `json:"message"`
	RelatedPost       *primitive.ObjectID `json:"relatedPost,omitempty"`
	RelatedConnection *primitive.ObjectID `json:"relatedConnection,omitempty"`
	RelatedComment    *primitive.ObjectID `json:"relatedComment,omitempty"`
	IsRead            bool                `json:"isRead"`
	CreatedAt         time.Time           `json:"createdAt"`
	ReadAt            *time.Time          `json:"readAt,omitempty"`
}
