package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/devlinkhq/devlink-backend/src/lib"
	"github.com/devlinkhq/devlink-backend/src/models"
	"github.com/devlinkhq/devlink-backend/src/stores"
)

type ProfileController struct {
	profiles *stores.ProfileStore
	users    *stores.UserStore
	log      *zap.Logger
}

func NewProfileController(profiles *stores.ProfileStore, users *stores.UserStore, log *zap.Logger) *ProfileController {
	return &ProfileController{profiles: profiles, users: users, log: log}
}

// GetMe returns the caller's profile with the owning user attached.
func (ctrl *ProfileController) GetMe(c *fiber.Ctx) error {
	user := currentUser(c)

	profile, err := ctrl.profiles.ByUser(c.Context(), user.Id)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	if profile == nil {
		return c.Status(fiber.StatusNotFound).JSON(lib.MessageResponse("No profile found"))
	}

	view, err := ctrl.withUser(c, *profile)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	return c.Status(fiber.StatusOK).JSON(view)
}

// Upsert creates the caller's profile or overwrites its scalar fields.
func (ctrl *ProfileController) Upsert(c *fiber.Ctx) error {
	var body struct {
		Bio            string             `json:"bio"`
		Location       string             `json:"location"`
		Skills         []string           `json:"skills"`
		ProfilePicture string             `json:"profilePicture"`
		Social         models.SocialLinks `json:"social"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request body"))
	}

	user := currentUser(c)
	if body.Skills == nil {
		body.Skills = []string{}
	}

	profile := models.Profile{
		User:           user.Id,
		Bio:            body.Bio,
		Location:       body.Location,
		Skills:         body.Skills,
		ProfilePicture: body.ProfilePicture,
		Social:         body.Social,
		CreatedAt:      time.Now(),
	}

	updated, err := ctrl.profiles.Upsert(c.Context(), &profile)
	if err != nil {
		return fail(c, ctrl.log, err)
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}

// GetAll lists every profile with owner summaries attached.
func (ctrl *ProfileController) GetAll(c *fiber.Ctx) error {
	profiles, err := ctrl.profiles.All(c.Context())
	if err != nil {
		return fail(c, ctrl.log, err)
	}

	views := make([]models.ProfileWithUser, 0, len(profiles))
	for _, profile := range profiles {
		view, err := ctrl.withUser(c, profile)
		if err != nil {
			return fail(c, ctrl.log, err)
		}
		views = append(views, view)
	}

	return c.Status(fiber.StatusOK).JSON(views)
}

// GetByUser returns the profile of the user named in the path.
func (ctrl *ProfileController) GetByUser(c *fiber.Ctx) error {
	userID, err := primitive.ObjectIDFromHex(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid user ID"))
	}

	profile, err := ctrl.profiles.ByUser(c.Context(), userID)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	if profile == nil {
		return c.Status(fiber.StatusNotFound).JSON(lib.MessageResponse("Profile not found"))
	}

	view, err := ctrl.withUser(c, *profile)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	return c.Status(fiber.StatusOK).JSON(view)
}

// AddExperience prepends an experience entry to the caller's profile.
func (ctrl *ProfileController) AddExperience(c *fiber.Ctx) error {
	var entry models.Experience
	if err := c.BodyParser(&entry); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request body"))
	}
	entry.Id = primitive.NewObjectID()

	user := currentUser(c)
	profile, err := ctrl.profiles.AddExperience(c.Context(), user.Id, entry)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	if profile == nil {
		return c.Status(fiber.StatusNotFound).JSON(lib.MessageResponse("No profile found"))
	}

	return c.Status(fiber.StatusOK).JSON(profile)
}

// AddEducation prepends an education entry to the caller's profile.
func (ctrl *ProfileController) AddEducation(c *fiber.Ctx) error {
	var entry models.Education
	if err := c.BodyParser(&entry); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request body"))
	}
	entry.Id = primitive.NewObjectID()

	user := currentUser(c)
	profile, err := ctrl.profiles.AddEducation(c.Context(), user.Id, entry)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	if profile == nil {
		return c.Status(fiber.StatusNotFound).JSON(lib.MessageResponse("No profile found"))
	}

	return c.Status(fiber.StatusOK).JSON(profile)
}

// RemoveExperience deletes one experience entry by id.
func (ctrl *ProfileController) RemoveExperience(c *fiber.Ctx) error {
	entryID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid experience ID"))
	}

	user := currentUser(c)
	profile, err := ctrl.profiles.RemoveExperience(c.Context(), user.Id, entryID)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	if profile == nil {
		return c.Status(fiber.StatusNotFound).JSON(lib.MessageResponse("No profile found"))
	}

	return c.Status(fiber.StatusOK).JSON(profile)
}

// RemoveEducation deletes one education entry by id.
func (ctrl *ProfileController) RemoveEducation(c *fiber.Ctx) error {
	entryID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid education ID"))
	}

	user := currentUser(c)
	profile, err := ctrl.profiles.RemoveEducation(c.Context(), user.Id, entryID)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	if profile == nil {
		return c.Status(fiber.StatusNotFound).JSON(lib.MessageResponse("No profile found"))
	}

	return c.Status(fiber.StatusOK).JSON(profile)
}

// DeleteAccount removes the caller's profile and user record.
func (ctrl *ProfileController) DeleteAccount(c *fiber.Ctx) error {
	user := currentUser(c)

	if err := ctrl.profiles.DeleteByUser(c.Context(), user.Id); err != nil {
		return fail(c, ctrl.log, err)
	}
	if err := ctrl.users.Delete(c.Context(), user.Id); err != nil {
		return fail(c, ctrl.log, err)
	}

	return c.Status(fiber.StatusOK).JSON(lib.MessageResponse("User and profile deleted"))
}

func (ctrl *ProfileController) withUser(c *fiber.Ctx, profile models.Profile) (models.ProfileWithUser, error) {
	ref, err := ctrl.users.Summary(c.Context(), profile.User)
	if err != nil {
		return models.ProfileWithUser{}, err
	}
	return models.ProfileWithUser{Profile: profile, UserRef: ref}, nil
}
