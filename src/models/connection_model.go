package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Connection struct {
	Id          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Requester   primitive.ObjectID `json:"requester" bson:"requester"`
	Recipient   primitive.ObjectID `json:"recipient" bson:"recipient"`
	Status      ConnectionStatus   `json:"status" bson:"status"`
	RequestedAt time.Time          `json:"requestedAt" bson:"requestedAt"`
	RespondedAt *time.Time         `json:"respondedAt,omitempty" bson:"respondedAt,omitempty"`
}

type ConnectionStatus string

const (
	ConnectionStatusPending  ConnectionStatus = "pending"
	ConnectionStatusAccepted ConnectionStatus = "accepted"
	ConnectionStatusRejected ConnectionStatus = "rejected"
)

// ConnectionWithUsers is a connection with both parties resolved to user
// summaries for the response body.
type ConnectionWithUsers struct {
	Id          primitive.ObjectID `json:"_id"`
	Requester   UserRef            `json:"requester"`
	Recipient   UserRef            `json:"recipient"`
	Status      ConnectionStatus   `json:"status"`
	RequestedAt time.Time          `json:"requestedAt"`
	RespondedAt *time.Time         `json:"respondedAt,omitempty"`
}

// ConnectionEntry is one row of the accepted-connections list: the other
// party plus when the connection was made.
type ConnectionEntry struct {
	Id           primitive.ObjectID `json:"_id"`
	User         EnrichedUser       `json:"user"`
	ConnectedAt  *time.Time         `json:"connectedAt"`
	ConnectionId primitive.ObjectID `json:"connectionId"`
}

// ConnectionStatusInfo describes the relationship between two users.
type ConnectionStatusInfo struct {
	Status    string              `json:"status"`
	RequestId *primitive.ObjectID `json:"requestId,omitempty"`
}
