package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Project struct {
	Id           primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	User         primitive.ObjectID `json:"user" bson:"user"`
	Title        string             `json:"title" bson:"title"`
	Description  string             `json:"description" bson:"description"`
	Technologies []string           `json:"technologies" bson:"technologies"`
	ProjectImage string             `json:"projectImage" bson:"projectImage"`
	LiveUrl      string             `json:"liveUrl" bson:"liveUrl"`
	GithubUrl    string             `json:"githubUrl" bson:"githubUrl"`
	Featured     bool               `json:"featured" bson:"featured"`
	Status       ProjectStatus      `json:"status" bson:"status"`
	StartDate    *time.Time         `json:"startDate,omitempty" bson:"startDate,omitempty"`
	EndDate      *time.Time         `json:"endDate,omitempty" bson:"endDate,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
}

type ProjectStatus string

const (
	ProjectStatusInProgress ProjectStatus = "in-progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusOnHold     ProjectStatus = "on-hold"
)

// Valid reports whether the value is one of the known project statuses.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusInProgress, ProjectStatusCompleted, ProjectStatusOnHold:
		return true
	}
	return false
}

// ProjectWithUser is a project with the owning user's summary attached.
type ProjectWithUser struct {
	Project  `bson:",inline"`
	UserInfo *UserRef `json:"userInfo"`
}
