package controllers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/devlinkhq/devlink-backend/src/lib"
	"github.com/devlinkhq/devlink-backend/src/models"
	"github.com/devlinkhq/devlink-backend/src/services"
	"github.com/devlinkhq/devlink-backend/src/stores"
)

const (
	maxPostContentLength = 2000
	maxCommentLength     = 500
)

type PostController struct {
	posts       *mongo.Collection
	projects    *mongo.Collection
	connections *stores.ConnectionStore
	enrich      *services.Enricher
	notify      *services.Notifications
	log         *zap.Logger
}

func NewPostController(db *mongo.Database, connections *stores.ConnectionStore, enrich *services.Enricher, notify *services.Notifications, log *zap.Logger) *PostController {
	return &PostController{
		posts:       db.Collection("posts"),
		projects:    db.Collection("projects"),
		connections: connections,
		enrich:      enrich,
		notify:      notify,
		log:         log,
	}
}

// GetFeed returns public posts plus the caller's own posts and their
// accepted connections' connection-visible posts, pinned first then
// newest first.
func (ctrl *PostController) GetFeed(c *fiber.Ctx) error {
	user := currentUser(c)

	page := int64(c.QueryInt("page", 1))
	limit := int64(c.QueryInt("limit", 10))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	filter, err := ctrl.visibleFilter(c, user.Id)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "isPinned", Value: -1}, {Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	return ctrl.respondList(c, filter, opts)
}

// GetMine returns every post of the caller, in any visibility.
func (ctrl *PostController) GetMine(c *fiber.Ctx) error {
	user := currentUser(c)

	filter := bson.M{"user": user.Id}
	opts := options.Find().SetSort(bson.D{{Key: "isPinned", Value: -1}, {Key: "createdAt", Value: -1}})

	return ctrl.respondList(c, filter, opts)
}

// GetByUser returns the public posts of the user named in the path.
func (ctrl *PostController) GetByUser(c *fiber.Ctx) error {
	userID, err := primitive.ObjectIDFromHex(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid user ID"))
	}

	filter := bson.M{"user": userID, "visibility": models.VisibilityPublic}
	opts := options.Find().SetSort(bson.D{{Key: "isPinned", Value: -1}, {Key: "createdAt", Value: -1}})

	return ctrl.respondList(c, filter, opts)
}

func (ctrl *PostController) GetByID(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid post ID"))
	}

	post, err := ctrl.load(c, id)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	if post == nil {
		return c.Status(fiber.StatusNotFound).JSON(lib.MessageResponse("Post not found"))
	}

	return ctrl.respondOne(c, post)
}

// Create inserts a new post owned by the caller.
func (ctrl *PostController) Create(c *fiber.Ctx) error {
	var body struct {
		Content    string           `json:"content"`
		PostType   string           `json:"postType"`
		Image      string           `json:"image"`
		Link       *models.PostLink `json:"link"`
		Project    string           `json:"project"`
		Tags       []string         `json:"tags"`
		Visibility string           `json:"visibility"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request body"))
	}

	body.Content = strings.TrimSpace(body.Content)
	if body.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Post content is required"))
	}
	if len(body.Content) > maxPostContentLength {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Post content must be 2000 characters or less"))
	}

	postType := models.PostTypeText
	if body.PostType != "" {
		postType = models.PostType(body.PostType)
		if !postType.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid post type"))
		}
	}
	visibility := models.VisibilityPublic
	if body.Visibility != "" {
		visibility = models.PostVisibility(body.Visibility)
		if !visibility.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid visibility"))
		}
	}

	user := currentUser(c)
	now := time.Now()
	post := models.Post{
		Id:          primitive.NewObjectID(),
		User:        user.Id,
		Content:     body.Content,
		PostType:    postType,
		Image:       body.Image,
		Link:        body.Link,
		Tags:        []string{},
		Likes:       []models.Like{},
		Comments:    []models.Comment{},
		Shares:      []models.Like{},
		Visibility:  visibility,
		EditHistory: []models.EditEntry{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if body.Project != "" {
		projectID, err := primitive.ObjectIDFromHex(body.Project)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid project ID"))
		}
		post.Project = &projectID
	}
	for _, tag := range body.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			post.Tags = append(post.Tags, tag)
		}
	}

	if _, err := ctrl.posts.InsertOne(c.Context(), post); err != nil {
		return fail(c, ctrl.log, err)
	}

	return ctrl.respondOne(c, &post)
}

// Update edits an owned post, keeping the previous content in the edit
// history when it changes.
func (ctrl *PostController) Update(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid post ID"))
	}

	var body struct {
		Content    string   `json:"content"`
		Tags       []string `json:"tags"`
		Visibility string   `json:"visibility"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request body"))
	}

	body.Content = strings.TrimSpace(body.Content)
	if len(body.Content) > maxPostContentLength {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Post content must be 2000 characters or less"))
	}
	if body.Visibility != "" && !models.PostVisibility(body.Visibility).Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid visibility"))
	}

	post, err := ctrl.load(c, id)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	if post == nil {
		return c.Status(fiber.StatusNotFound).JSON(lib.MessageResponse("Post not found"))
	}

	user := currentUser(c)
	if post.User != user.Id {
		return c.Status(fiber.StatusUnauthorized).JSON(lib.MessageResponse("User not authorized"))
	}

	set := bson.M{"updatedAt": time.Now()}
	update := bson.M{"$set": set}

	if body.Content != "" {
		set["content"] = body.Content
		if body.Content != post.Content {
			set["isEdited"] = true
			update["$push"] = bson.M{
				"editHistory": models.EditEntry{Content: post.Content, EditedAt: time.Now()},
			}
		}
	}
	if body.Visibility != "" {
		set["visibility"] = models.PostVisibility(body.Visibility)
	}
	if body.Tags != nil {
		tags := []string{}
		for _, tag := range body.Tags {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
		set["tags"] = tags
	}

	if _, err := ctrl.posts.UpdateByID(c.Context(), id, update); err != nil {
		return fail(c, ctrl.log, err)
	}

	return ctrl.reload(c, id)
}

// Delete removes an owned post.
func (ctrl *PostController) Delete(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid post ID"))
	}

	post, err := ctrl.load(c, id)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	if post == nil {
		return c.Status(fiber.StatusNotFound).JSON(lib.MessageResponse("Post not found"))
	}

	user := currentUser(c)
	if post.User != user.Id {
		return c.Status(fiber.StatusUnauthorized).JSON(lib.MessageResponse("User not authorized"))
	}

	if _, err := ctrl.posts.DeleteOne(c.Context(), bson.M{"_id": id}); err != nil {
		return fail(c, ctrl.log, err)
	}

	return c.Status(fiber.StatusOK).JSON(lib.MessageResponse("Post removed"))
}

// ToggleLike likes the post, or takes the like back if one exists. The
// author is notified only when a like is added.
func (ctrl *PostController) ToggleLike(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid post ID"))
	}

	post, err := ctrl.load(c, id)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	if post == nil {
		return c.Status(fiber.StatusNotFound).JSON(lib.MessageResponse("Post not found"))
	}

	user := currentUser(c)
	liked := false
	for _, like := range post.Likes {
		if like.User == user.Id {
			liked = true
			break
		}
	}

	var update bson.M
	if liked {
		update = bson.M{"$pull": bson.M{"likes": bson.M{"user": user.Id}}}
	} else {
		update = bson.M{"$push": bson.M{"likes": bson.M{
			"$each":     []models.Like{{User: user.Id, Date: time.Now()}},
			"$position": 0,
		}}}
	}

	if _, err := ctrl.posts.UpdateByID(c.Context(), id, update); err != nil {
		return fail(c, ctrl.log, err)
	}

	if !liked {
		ctrl.notify.Emit(c.Context(), models.Notification{
			Recipient:   post.User,
			Sender:      user.Id,
			Type:        models.NotificationTypePostLike,
			Message:     fmt.Sprintf("%s liked your post", user.Name),
			RelatedPost: &post.Id,
		})
	}

	return ctrl.reload(c, id)
}

// AddComment prepends a comment and notifies the post author.
func (ctrl *PostController) AddComment(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid post ID"))
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request body"))
	}
	body.Content = strings.TrimSpace(body.Content)
	if body.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Comment content is required"))
	}
	if len(body.Content) > maxCommentLength {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Comment content must be 500 characters or less"))
	}

	post, err := ctrl.load(c, id)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	if post == nil {
		return c.Status(fiber.StatusNotFound).JSON(lib.MessageResponse("Post not found"))
	}

	user := currentUser(c)
	comment := models.Comment{
		Id:      primitive.NewObjectID(),
		User:    user.Id,
		Content: body.Content,
		Date:    time.Now(),
	}

	update := bson.M{"$push": bson.M{"comments": bson.M{
		"$each":     []models.Comment{comment},
		"$position": 0,
	}}}
	if _, err := ctrl.posts.UpdateByID(c.Context(), id, update); err != nil {
		return fail(c, ctrl.log, err)
	}

	ctrl.notify.Emit(c.Context(), models.Notification{
		Recipient:      post.User,
		Sender:         user.Id,
		Type:           models.NotificationTypePostComment,
		Message:        fmt.Sprintf("%s commented on your post", user.Name),
		RelatedPost:    &post.Id,
		RelatedComment: &comment.Id,
	})

	return ctrl.reload(c, id)
}

// DeleteComment removes a comment. The comment author or the post owner
// may delete it.
func (ctrl *PostController) DeleteComment(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid post or comment ID"))
	}
	commentID, err := primitive.ObjectIDFromHex(c.Params("commentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid post or comment ID"))
	}

	post, err := ctrl.load(c, id)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	if post == nil {
		return c.Status(fiber.StatusNotFound).JSON(lib.MessageResponse("Post not found"))
	}

	var comment *models.Comment
	for i := range post.Comments {
		if post.Comments[i].Id == commentID {
			comment = &post.Comments[i]
			break
		}
	}
	if comment == nil {
		return c.Status(fiber.StatusNotFound).JSON(lib.MessageResponse("Comment not found"))
	}

	user := currentUser(c)
	if comment.User != user.Id && post.User != user.Id {
		return c.Status(fiber.StatusUnauthorized).JSON(lib.MessageResponse("User not authorized"))
	}

	update := bson.M{"$pull": bson.M{"comments": bson.M{"_id": commentID}}}
	if _, err := ctrl.posts.UpdateByID(c.Context(), id, update); err != nil {
		return fail(c, ctrl.log, err)
	}

	return ctrl.reload(c, id)
}

// TogglePin flips the pinned flag of an owned post.
func (ctrl *PostController) TogglePin(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid post ID"))
	}

	post, err := ctrl.load(c, id)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	if post == nil {
		return c.Status(fiber.StatusNotFound).JSON(lib.MessageResponse("Post not found"))
	}

	user := currentUser(c)
	if post.User != user.Id {
		return c.Status(fiber.StatusUnauthorized).JSON(lib.MessageResponse("User not authorized"))
	}

	update := bson.M{"$set": bson.M{"isPinned": !post.IsPinned}}
	if _, err := ctrl.posts.UpdateByID(c.Context(), id, update); err != nil {
		return fail(c, ctrl.log, err)
	}

	return ctrl.reload(c, id)
}

func (ctrl *PostController) load(c *fiber.Ctx, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := ctrl.posts.FindOne(c.Context(), bson.M{"_id": id}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (ctrl *PostController) reload(c *fiber.Ctx, id primitive.ObjectID) error {
	post, err := ctrl.load(c, id)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	if post == nil {
		return c.Status(fiber.StatusNotFound).JSON(lib.MessageResponse("Post not found"))
	}
	return ctrl.respondOne(c, post)
}

func (ctrl *PostController) respondOne(c *fiber.Ctx, post *models.Post) error {
	view, err := ctrl.view(c, post)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	return c.Status(fiber.StatusOK).JSON(view)
}

func (ctrl *PostController) respondList(c *fiber.Ctx, filter bson.M, opts *options.FindOptions) error {
	views, err := ctrl.list(c, filter, opts)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	return c.Status(fiber.StatusOK).JSON(views)
}

func (ctrl *PostController) list(c *fiber.Ctx, filter bson.M, opts *options.FindOptions) ([]models.PostView, error) {
	cursor, err := ctrl.posts.Find(c.Context(), filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(c.Context())

	var posts []models.Post
	if err := cursor.All(c.Context(), &posts); err != nil {
		return nil, err
	}

	views := make([]models.PostView, 0, len(posts))
	for i := range posts {
		view, err := ctrl.view(c, &posts[i])
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// visibleFilter matches the posts a user's feed may contain: everything
// public, plus connection-visible posts from the user and their accepted
// connections.
func (ctrl *PostController) visibleFilter(c *fiber.Ctx, user primitive.ObjectID) (bson.M, error) {
	conns, err := ctrl.connections.AcceptedInvolving(c.Context(), user)
	if err != nil {
		return nil, err
	}

	circle := make([]primitive.ObjectID, 0, len(conns)+1)
	for _, conn := range conns {
		other := conn.Requester
		if other == user {
			other = conn.Recipient
		}
		circle = append(circle, other)
	}
	circle = append(circle, user)

	return bson.M{
		"$or": []bson.M{
			{"visibility": models.VisibilityPublic},
			{
				"user":       bson.M{"$in": circle},
				"visibility": bson.M{"$in": []models.PostVisibility{models.VisibilityPublic, models.VisibilityConnections}},
			},
		},
	}, nil
}

// view resolves the author, project and commenters of a post into the
// response shape.
func (ctrl *PostController) view(c *fiber.Ctx, post *models.Post) (models.PostView, error) {
	author, err := ctrl.enrich.UserRef(c.Context(), post.User)
	if err != nil {
		return models.PostView{}, err
	}

	view := models.PostView{
		Id:           post.Id,
		User:         author,
		Content:      post.Content,
		PostType:     post.PostType,
		Image:        post.Image,
		Link:         post.Link,
		Tags:         post.Tags,
		Likes:        post.Likes,
		Comments:     make([]models.CommentView, 0, len(post.Comments)),
		Visibility:   post.Visibility,
		IsPinned:     post.IsPinned,
		IsEdited:     post.IsEdited,
		LikeCount:    len(post.Likes),
		CommentCount: len(post.Comments),
		CreatedAt:    post.CreatedAt,
		UpdatedAt:    post.UpdatedAt,
	}

	if post.Project != nil {
		var ref models.ProjectRef
		err := ctrl.projects.FindOne(c.Context(), bson.M{"_id": *post.Project},
			options.FindOne().SetProjection(bson.M{"title": 1, "projectImage": 1})).Decode(&ref)
		if err != nil && err != mongo.ErrNoDocuments {
			return models.PostView{}, err
		}
		if err == nil {
			view.Project = &ref
		}
	}

	for _, comment := range post.Comments {
		commenter, err := ctrl.enrich.UserRef(c.Context(), comment.User)
		if err != nil {
			return models.PostView{}, err
		}
		view.Comments = append(view.Comments, models.CommentView{
			Id:      comment.Id,
			User:    commenter,
			Content: comment.Content,
			Date:    comment.Date,
		})
	}

	return view, nil
}
