package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	Id        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Email     string             `json:"email" bson:"email"`
	Password  string             `json:"-" bson:"password"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// UserRef is the slim user shape embedded in connection and notification
// responses: name, email and the profile picture when one exists.
type UserRef struct {
	Id             primitive.ObjectID `json:"_id" bson:"_id"`
	Name           string             `json:"name" bson:"name"`
	Email          string             `json:"email" bson:"email"`
	ProfilePicture *string            `json:"profilePicture" bson:"profilePicture,omitempty"`
}

// EnrichedUser extends UserRef with the public profile fields. Fields are
// null-valued when the user has no profile.
type EnrichedUser struct {
	Id             primitive.ObjectID `json:"_id"`
	Name           string             `json:"name"`
	Email          string             `json:"email"`
	ProfilePicture *string            `json:"profilePicture"`
	Bio            *string            `json:"bio"`
	Location       *string            `json:"location"`
	Skills         []string           `json:"skills"`
}

// UserSearchResult is a search hit: the enriched user plus the caller's
// relationship to them.
type UserSearchResult struct {
	EnrichedUser
	ConnectionStatus string `json:"connectionStatus"`
}
