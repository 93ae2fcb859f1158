package controllers

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/devlinkhq/devlink-backend/src/lib"
	"github.com/devlinkhq/devlink-backend/src/models"
	"github.com/devlinkhq/devlink-backend/src/services"
	"github.com/devlinkhq/devlink-backend/src/stores"
)

const skillSearchLimit = 50

// SkillStore is the persistence contract of the skill handlers. ByID
// returns (nil, nil) when no document matches.
type SkillStore interface {
	Insert(ctx context.Context, skill *models.Skill) error
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Skill, error)
	ByUser(ctx context.Context, user primitive.ObjectID) ([]models.Skill, error)
	NameExists(ctx context.Context, user primitive.ObjectID, name string) (bool, error)
	CategoriesFor(ctx context.Context, user primitive.ObjectID) ([]models.SkillCategoryCount, error)
	Update(ctx context.Context, id primitive.ObjectID, patch stores.SkillUpdate) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	AddEndorsement(ctx context.Context, id primitive.ObjectID, e models.Endorsement) error
	RemoveEndorsement(ctx context.Context, id, user primitive.ObjectID, stillEndorsed bool) error
	Search(ctx context.Context, name, category, proficiency string, limit int64) ([]models.Skill, error)
}

type SkillController struct {
	skills SkillStore
	enrich *services.Enricher
	log    *zap.Logger
}

func NewSkillController(skills SkillStore, enrich *services.Enricher, log *zap.Logger) *SkillController {
	return &SkillController{
		skills: skills,
		enrich: enrich,
		log:    log,
	}
}

func (ctrl *SkillController) GetMine(c *fiber.Ctx) error {
	user := currentUser(c)

	skills, err := ctrl.skills.ByUser(c.Context(), user.Id)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	return c.Status(fiber.StatusOK).JSON(skills)
}

func (ctrl *SkillController) GetByUser(c *fiber.Ctx) error {
	userID, err := primitive.ObjectIDFromHex(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid user ID"))
	}

	skills, err := ctrl.skills.ByUser(c.Context(), userID)
	if err != nil {
		return fail(c, ctrl.log, err)
	}

	views, err := ctrl.withUsers(c, skills)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	return c.Status(fiber.StatusOK).JSON(views)
}

// GetCategories groups the caller's skills by category with counts.
func (ctrl *SkillController) GetCategories(c *fiber.Ctx) error {
	user := currentUser(c)

	buckets, err := ctrl.skills.CategoriesFor(c.Context(), user.Id)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	return c.Status(fiber.StatusOK).JSON(buckets)
}

// Create adds a skill for the caller. Names are unique per user,
// case-insensitively; category and proficiency come from fixed sets.
func (ctrl *SkillController) Create(c *fiber.Ctx) error {
	var body struct {
		Name              string                 `json:"name"`
		Category          string                 `json:"category"`
		Proficiency       string                 `json:"proficiency"`
		YearsOfExperience int                    `json:"yearsOfExperience"`
		Description       string                 `json:"description"`
		Featured          bool                   `json:"featured"`
		Certifications    []models.Certification `json:"certifications"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request body"))
	}

	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" || body.Category == "" || body.Proficiency == "" {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Please provide skill name, category, and proficiency level"))
	}
	if !models.ValidSkillCategory(body.Category) {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid skill category"))
	}
	if !models.ValidSkillProficiency(body.Proficiency) {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid proficiency level"))
	}

	user := currentUser(c)
	exists, err := ctrl.skills.NameExists(c.Context(), user.Id, body.Name)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	if exists {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("You already have this skill listed"))
	}

	if body.Certifications == nil {
		body.Certifications = []models.Certification{}
	}

	now := time.Now()
	skill := models.Skill{
		Id:                primitive.NewObjectID(),
		User:              user.Id,
		Name:              body.Name,
		Category:          body.Category,
		Proficiency:       body.Proficiency,
		YearsOfExperience: body.YearsOfExperience,
		Description:       strings.TrimSpace(body.Description),
		Endorsements:      []models.Endorsement{},
		Certifications:    body.Certifications,
		Featured:          body.Featured,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := ctrl.skills.Insert(c.Context(), &skill); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("You already have this skill listed"))
		}
		return fail(c, ctrl.log, err)
	}

	return ctrl.respondOne(c, skill.Id)
}

// Update edits an owned skill. Only provided fields change.
func (ctrl *SkillController) Update(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid skill ID"))
	}

	var body struct {
		Name              *string                `json:"name"`
		Category          *string                `json:"category"`
		Proficiency       *string                `json:"proficiency"`
		YearsOfExperience *int                   `json:"yearsOfExperience"`
		Description       *string                `json:"description"`
		Featured          *bool                  `json:"featured"`
		Certifications    []models.Certification `json:"certifications"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request body"))
	}
	if body.Category != nil && *body.Category != "" && !models.ValidSkillCategory(*body.Category) {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid skill category"))
	}
	if body.Proficiency != nil && *body.Proficiency != "" && !models.ValidSkillProficiency(*body.Proficiency) {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid proficiency level"))
	}

	skill, err := ctrl.skills.ByID(c.Context(), id)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	if skill == nil {
		return c.Status(fiber.StatusNotFound).JSON(lib.MessageResponse("Skill not found"))
	}

	user := currentUser(c)
	if skill.User != user.Id {
		return c.Status(fiber.StatusUnauthorized).JSON(lib.MessageResponse("User not authorized"))
	}

	patch := stores.SkillUpdate{
		YearsOfExperience: body.YearsOfExperience,
		Featured:          body.Featured,
		Certifications:    body.Certifications,
	}
	if body.Name != nil {
		if trimmed := strings.TrimSpace(*body.Name); trimmed != "" {
			patch.Name = &trimmed
		}
	}
	if body.Category != nil && *body.Category != "" {
		patch.Category = body.Category
	}
	if body.Proficiency != nil && *body.Proficiency != "" {
		patch.Proficiency = body.Proficiency
	}
	if body.Description != nil {
		trimmed := strings.TrimSpace(*body.Description)
		patch.Description = &trimmed
	}

	if err := ctrl.skills.Update(c.Context(), id, patch); err != nil {
		return fail(c, ctrl.log, err)
	}

	return ctrl.respondOne(c, id)
}

func (ctrl *SkillController) Delete(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid skill ID"))
	}

	skill, err := ctrl.skills.ByID(c.Context(), id)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	if skill == nil {
		return c.Status(fiber.StatusNotFound).JSON(lib.MessageResponse("Skill not found"))
	}

	user := currentUser(c)
	if skill.User != user.Id {
		return c.Status(fiber.StatusUnauthorized).JSON(lib.MessageResponse("User not authorized"))
	}

	if err := ctrl.skills.Delete(c.Context(), id); err != nil {
		return fail(c, ctrl.log, err)
	}

	return c.Status(fiber.StatusOK).JSON(lib.MessageResponse("Skill removed"))
}

// Endorse adds the caller's endorsement to someone else's skill, once.
func (ctrl *SkillController) Endorse(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid skill ID"))
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := c.BodyParser(&body); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request body"))
	}

	skill, err := ctrl.skills.ByID(c.Context(), id)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	if skill == nil {
		return c.Status(fiber.StatusNotFound).JSON(lib.MessageResponse("Skill not found"))
	}

	user := currentUser(c)
	if skill.User == user.Id {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Cannot endorse your own skill"))
	}
	for _, endorsement := range skill.Endorsements {
		if endorsement.User == user.Id {
			return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("You have already endorsed this skill"))
		}
	}

	endorsement := models.Endorsement{User: user.Id, Message: body.Message, Date: time.Now()}
	if err := ctrl.skills.AddEndorsement(c.Context(), id, endorsement); err != nil {
		return fail(c, ctrl.log, err)
	}

	return ctrl.respondOne(c, id)
}

// Unendorse withdraws the caller's endorsement.
func (ctrl *SkillController) Unendorse(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid skill ID"))
	}

	skill, err := ctrl.skills.ByID(c.Context(), id)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	if skill == nil {
		return c.Status(fiber.StatusNotFound).JSON(lib.MessageResponse("Skill not found"))
	}

	user := currentUser(c)
	found := false
	for _, endorsement := range skill.Endorsements {
		if endorsement.User == user.Id {
			found = true
			break
		}
	}
	if !found {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("You have not endorsed this skill"))
	}

	if err := ctrl.skills.RemoveEndorsement(c.Context(), id, user.Id, len(skill.Endorsements) > 1); err != nil {
		return fail(c, ctrl.log, err)
	}

	return ctrl.respondOne(c, id)
}

// Search filters skills across all users by name, category and
// proficiency.
func (ctrl *SkillController) Search(c *fiber.Ctx) error {
	skills, err := ctrl.skills.Search(c.Context(),
		c.Query("q"), c.Query("category"), c.Query("proficiency"), skillSearchLimit)
	if err != nil {
		return fail(c, ctrl.log, err)
	}

	views, err := ctrl.withUsers(c, skills)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	return c.Status(fiber.StatusOK).JSON(views)
}

func (ctrl *SkillController) withUsers(c *fiber.Ctx, skills []models.Skill) ([]models.SkillWithUser, error) {
	views := make([]models.SkillWithUser, 0, len(skills))
	for _, skill := range skills {
		ref, err := ctrl.enrich.UserRef(c.Context(), skill.User)
		if err != nil {
			return nil, err
		}
		views = append(views, models.SkillWithUser{Skill: skill, UserInfo: &ref})
	}
	return views, nil
}

func (ctrl *SkillController) respondOne(c *fiber.Ctx, id primitive.ObjectID) error {
	skill, err := ctrl.skills.ByID(c.Context(), id)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	if skill == nil {
		return c.Status(fiber.StatusNotFound).JSON(lib.MessageResponse("Skill not found"))
	}

	ref, err := ctrl.enrich.UserRef(c.Context(), skill.User)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	return c.Status(fiber.StatusOK).JSON(models.SkillWithUser{Skill: *skill, UserInfo: &ref})
}
