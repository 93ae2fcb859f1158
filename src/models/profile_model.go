package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Profile struct {
	Id             primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	User           primitive.ObjectID `json:"user" bson:"user"`
	Bio            string             `json:"bio" bson:"bio"`
	Location       string             `json:"location" bson:"location"`
	Skills         []string           `json:"skills" bson:"skills"`
	ProfilePicture string             `json:"profilePicture" bson:"profilePicture"`
	Social         SocialLinks        `json:"social" bson:"social"`
	Experience     []Experience       `json:"experience" bson:"experience"`
	Education      []Education        `json:"education" bson:"education"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
}

type SocialLinks struct {
	Github   string `json:"github" bson:"github"`
	Linkedin string `json:"linkedin" bson:"linkedin"`
	Twitter  string `json:"twitter" bson:"twitter"`
}

type Experience struct {
	Id          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Company     string             `json:"company" bson:"company"`
	Location    string             `json:"location" bson:"location"`
	From        time.Time          `json:"from" bson:"from"`
	To          *time.Time         `json:"to,omitempty" bson:"to,omitempty"`
	Current     bool               `json:"current" bson:"current"`
	Description string             `json:"description" bson:"description"`
}

type Education struct {
	Id           primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	School       string             `json:"school" bson:"school"`
	Degree       string             `json:"degree" bson:"degree"`
	FieldOfStudy string             `json:"fieldOfStudy" bson:"fieldOfStudy"`
	From         time.Time          `json:"from" bson:"from"`
	To           *time.Time         `json:"to,omitempty" bson:"to,omitempty"`
	Current      bool               `json:"current" bson:"current"`
	Description  string             `json:"description" bson:"description"`
}

// ProfileWithUser is a profile with the owning user's summary attached.
type ProfileWithUser struct {
	Profile `bson:",inline"`
	UserRef *UserRef `json:"userInfo"`
}
