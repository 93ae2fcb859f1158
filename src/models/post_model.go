package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Post struct {
	Id          primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	User        primitive.ObjectID  `json:"user" bson:"user"`
	Content     string              `json:"content" bson:"content"`
	PostType    PostType            `json:"postType" bson:"postType"`
	Image       string              `json:"image,omitempty" bson:"image,omitempty"`
	Link        *PostLink           `json:"link,omitempty" bson:"link,omitempty"`
	Project     *primitive.ObjectID `json:"project,omitempty" bson:"project,omitempty"`
	Tags        []string            `json:"tags" bson:"tags"`
	Likes       []Like              `json:"likes" bson:"likes"`
	Comments    []Comment           `json:"comments" bson:"comments"`
	Shares      []Like              `json:"shares" bson:"shares"`
	Visibility  PostVisibility      `json:"visibility" bson:"visibility"`
	IsPinned    bool                `json:"isPinned" bson:"isPinned"`
	IsEdited    bool                `json:"isEdited" bson:"isEdited"`
	EditHistory []EditEntry         `json:"editHistory" bson:"editHistory"`
	CreatedAt   time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt" bson:"updatedAt"`
}

type PostType string

const (
	PostTypeText        PostType = "text"
	PostTypeImage       PostType = "image"
	PostTypeLink        PostType = "link"
	PostTypeProject     PostType = "project"
	PostTypeAchievement PostType = "achievement"
)

// Valid reports whether the value is one of the known post types.
func (t PostType) Valid() bool {
	switch t {
	case PostTypeText, PostTypeImage, PostTypeLink, PostTypeProject, PostTypeAchievement:
		return true
	}
	return false
}

type PostVisibility string

const (
	VisibilityPublic      PostVisibility = "public"
	VisibilityConnections PostVisibility = "connections"
	VisibilityPrivate     PostVisibility = "private"
)

// Valid reports whether the value is one of the known visibility levels.
func (v PostVisibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityConnections, VisibilityPrivate:
		return true
	}
	return false
}

type PostLink struct {
	Url         string `json:"url" bson:"url"`
	Title       string `json:"title" bson:"title"`
	Description string `json:"description" bson:"description"`
	Image       string `json:"image" bson:"image"`
}

type Like struct {
	User primitive.ObjectID `json:"user" bson:"user"`
	Date time.Time          `json:"date" bson:"date"`
}

type Comment struct {
	Id      primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	User    primitive.ObjectID `json:"user" bson:"user"`
	Content string             `json:"content" bson:"content"`
	Date    time.Time          `json:"date" bson:"date"`
}

type EditEntry struct {
	Content  string    `json:"content" bson:"content"`
	EditedAt time.Time `json:"editedAt" bson:"editedAt"`
}

// PostView is a post shaped for the response body: author and commenters
// resolved to user summaries, counts precomputed.
type PostView struct {
	Id           primitive.ObjectID  `json:"_id"`
	User         UserRef             `json:"user"`
	Content      string              `json:"content"`
	PostType     PostType            `json:"postType"`
	Image        string              `json:"image,omitempty"`
	Link         *PostLink           `json:"link,omitempty"`
	Project      *ProjectRef         `json:"project,omitempty"`
	Tags         []string            `json:"tags"`
	Likes        []Like              `json:"likes"`
	Comments     []CommentView       `json:"comments"`
	Visibility   PostVisibility      `json:"visibility"`
	IsPinned     bool                `json:"isPinned"`
	IsEdited     bool                `json:"isEdited"`
	LikeCount    int                 `json:"likeCount"`
	CommentCount int                 `json:"commentCount"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

type CommentView struct {
	Id      primitive.ObjectID `json:"_id"`
	User    UserRef            `json:"user"`
	Content string             `json:"content"`
	Date    time.Time          `json:"date"`
}

// ProjectRef is the slim project shape attached to posts.
type ProjectRef struct {
	Id           primitive.ObjectID `json:"_id" bson:"_id"`
	Title        string             `json:"title" bson:"title"`
	ProjectImage string             `json:"projectImage" bson:"projectImage"`
}
