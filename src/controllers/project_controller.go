package controllers

import (
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
)

const featuredProjectLimit = 10

type ProjectController struct {
	projects *mongo.Collection
	enrich   *services.Enricher
	log      *zap.Logger
}

func NewProjectController(db *mongo.Database, enrich *services.Enricher, log *zap.Logger) *ProjectController {
	return &ProjectController{
		projects: db.Collection("projects"),
		enrich:   enrich,
		log:      log,
	}
}

// GetAll lists every project, newest first, with owner summaries.
func (ctrl *ProjectController) GetAll(c *fiber.Ctx) error {
	return ctrl.respondList(c, bson.M{}, 0)
}

// GetFeatured lists the latest featured projects.
func (ctrl *ProjectController) GetFeatured(c *fiber.Ctx) error {
	return ctrl.respondList(c, bson.M{"featured": true}, featuredProjectLimit)
}

// GetMine lists the caller's projects without enrichment.
func (ctrl *ProjectController) GetMine(c *fiber.Ctx) error {
	user := currentUser(c)

	projects, err := ctrl.find(c, bson.M{"user": user.Id}, 0)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	return c.Status(fiber.StatusOK).JSON(projects)
}

func (ctrl *ProjectController) GetByUser(c *fiber.Ctx) error {
	userID, err := primitive.ObjectIDFromHex(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid user ID"))
	}
	return ctrl.respondList(c, bson.M{"user": userID}, 0)
}

func (ctrl *ProjectController) GetByID(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid project ID"))
	}

	project, err := ctrl.load(c, id)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	if project == nil {
		return c.Status(fiber.StatusNotFound).JSON(lib.MessageResponse("Project not found"))
	}

	return ctrl.respondOne(c, project)
}

// Create adds a project owned by the caller.
func (ctrl *ProjectController) Create(c *fiber.Ctx) error {
	var body struct {
		Title        string     `json:"title"`
		Description  string     `json:"description"`
		Technologies []string   `json:"technologies"`
		ProjectImage string     `json:"projectImage"`
		LiveUrl      string     `json:"liveUrl"`
		GithubUrl    string     `json:"githubUrl"`
		Featured     bool       `json:"featured"`
		Status       string     `json:"status"`
		StartDate    *time.Time `json:"startDate"`
		EndDate      *time.Time `json:"endDate"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request body"))
	}

	if body.Title == "" || body.Description == "" || len(body.Technologies) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Please provide title, description, and technologies"))
	}
	if body.Status != "" && !models.ProjectStatus(body.Status).Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid project status"))
	}

	user := currentUser(c)
	project := models.Project{
		Id:           primitive.NewObjectID(),
		User:         user.Id,
		Title:        body.Title,
		Description:  body.Description,
		Technologies: body.Technologies,
		ProjectImage: body.ProjectImage,
		LiveUrl:      body.LiveUrl,
		GithubUrl:    body.GithubUrl,
		Featured:     body.Featured,
		Status:       models.ProjectStatusCompleted,
		StartDate:    body.StartDate,
		EndDate:      body.EndDate,
		CreatedAt:    time.Now(),
	}
	if body.Status != "" {
		project.Status = models.ProjectStatus(body.Status)
	}

	if _, err := ctrl.projects.InsertOne(c.Context(), project); err != nil {
		return fail(c, ctrl.log, err)
	}

	return ctrl.respondOne(c, &project)
}

// Update edits an owned project. Only provided fields change.
func (ctrl *ProjectController) Update(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid project ID"))
	}

	var body struct {
		Title        *string    `json:"title"`
		Description  *string    `json:"description"`
		Technologies []string   `json:"technologies"`
		ProjectImage *string    `json:"projectImage"`
		LiveUrl      *string    `json:"liveUrl"`
		GithubUrl    *string    `json:"githubUrl"`
		Featured     *bool      `json:"featured"`
		Status       *string    `json:"status"`
		StartDate    *time.Time `json:"startDate"`
		EndDate      *time.Time `json:"endDate"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request body"))
	}
	if body.Status != nil && *body.Status != "" && !models.ProjectStatus(*body.Status).Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid project status"))
	}

	project, err := ctrl.load(c, id)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	if project == nil {
		return c.Status(fiber.StatusNotFound).JSON(lib.MessageResponse("Project not found"))
	}

	user := currentUser(c)
	if project.User != user.Id {
		return c.Status(fiber.StatusUnauthorized).JSON(lib.MessageResponse("User not authorized"))
	}

	set := bson.M{}
	if body.Title != nil && *body.Title != "" {
		set["title"] = *body.Title
	}
	if body.Description != nil && *body.Description != "" {
		set["description"] = *body.Description
	}
	if body.Technologies != nil {
		set["technologies"] = body.Technologies
	}
	if body.ProjectImage != nil {
		set["projectImage"] = *body.ProjectImage
	}
	if body.LiveUrl != nil {
		set["liveUrl"] = *body.LiveUrl
	}
	if body.GithubUrl != nil {
		set["githubUrl"] = *body.GithubUrl
	}
	if body.Featured != nil {
		set["featured"] = *body.Featured
	}
	if body.Status != nil && *body.Status != "" {
		set["status"] = models.ProjectStatus(*body.Status)
	}
	if body.StartDate != nil {
		set["startDate"] = *body.StartDate
	}
	if body.EndDate != nil {
		set["endDate"] = *body.EndDate
	}

	if len(set) > 0 {
		if _, err := ctrl.projects.UpdateByID(c.Context(), id, bson.M{"$set": set}); err != nil {
			return fail(c, ctrl.log, err)
		}
	}

	updated, err := ctrl.load(c, id)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	return ctrl.respondOne(c, updated)
}

func (ctrl *ProjectController) Delete(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid project ID"))
	}

	project, err := ctrl.load(c, id)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	if project == nil {
		return c.Status(fiber.StatusNotFound).JSON(lib.MessageResponse("Project not found"))
	}

	user := currentUser(c)
	if project.User != user.Id {
		return c.Status(fiber.StatusUnauthorized).JSON(lib.MessageResponse("User not authorized"))
	}

	if _, err := ctrl.projects.DeleteOne(c.Context(), bson.M{"_id": id}); err != nil {
		return fail(c, ctrl.log, err)
	}

	return c.Status(fiber.StatusOK).JSON(lib.MessageResponse("Project removed"))
}

func (ctrl *ProjectController) load(c *fiber.Ctx, id primitive.ObjectID) (*models.Project, error) {
	var project models.Project
	err := ctrl.projects.FindOne(c.Context(), bson.M{"_id": id}).Decode(&project)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (ctrl *ProjectController) find(c *fiber.Ctx, filter bson.M, limit int64) ([]models.Project, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := ctrl.projects.Find(c.Context(), filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(c.Context())

	projects := []models.Project{}
	if err := cursor.All(c.Context(), &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (ctrl *ProjectController) respondList(c *fiber.Ctx, filter bson.M, limit int64) error {
	projects, err := ctrl.find(c, filter, limit)
	if err != nil {
		return fail(c, ctrl.log, err)
	}

	views := make([]models.ProjectWithUser, 0, len(projects))
	for _, project := range projects {
		ref, err := ctrl.enrich.UserRef(c.Context(), project.User)
		if err != nil {
			return fail(c, ctrl.log, err)
		}
		views = append(views, models.ProjectWithUser{Project: project, UserInfo: &ref})
	}
	return c.Status(fiber.StatusOK).JSON(views)
}

func (ctrl *ProjectController) respondOne(c *fiber.Ctx, project *models.Project) error {
	ref, err := ctrl.enrich.UserRef(c.Context(), project.User)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	return c.Status(fiber.StatusOK).JSON(models.ProjectWithUser{Project: *project, UserInfo: &ref})
}
