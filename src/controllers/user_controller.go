package controllers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/devlinkhq/devlink-backend/src/lib"
	"github.com/devlinkhq/devlink-backend/src/models"
	"github.com/devlinkhq/devlink-backend/src/stores"
)

// UserController is the user directory surface: registration and id
// resolution. Token issuance is handled by an external issuer.
type UserController struct {
	users *stores.UserStore
	log   *zap.Logger
}

func NewUserController(users *stores.UserStore, log *zap.Logger) *UserController {
	return &UserController{users: users, log: log}
}

// Register creates a user with a bcrypt credential hash. No token is
// returned.
func (ctrl *UserController) Register(c *fiber.Ctx) error {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request body"))
	}

	body.Name = strings.TrimSpace(body.Name)
	body.Email = strings.TrimSpace(strings.ToLower(body.Email))

	if body.Name == "" || body.Email == "" || body.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Name, email and password are required"))
	}
	if len(body.Password) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Password must be at least 6 characters"))
	}

	existing, err := ctrl.users.ByEmail(c.Context(), body.Email)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	if existing != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Email already registered"))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), 11)
	if err != nil {
		return fail(c, ctrl.log, err)
	}

	user := models.User{
		Id:        primitive.NewObjectID(),
		Name:      body.Name,
		Email:     body.Email,
		Password:  string(hash),
		CreatedAt: time.Now(),
	}
	if err := ctrl.users.Insert(c.Context(), &user); err != nil {
		return fail(c, ctrl.log, err)
	}

	user.Password = ""
	return c.Status(fiber.StatusCreated).JSON(user)
}

// GetMe returns the authenticated caller's record.
func (ctrl *UserController) GetMe(c *fiber.Ctx) error {
	user := currentUser(c)
	return c.Status(fiber.StatusOK).JSON(user)
}

// GetByID resolves a user id to its public summary.
func (ctrl *UserController) GetByID(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid user ID"))
	}

	summary, err := ctrl.users.Summary(c.Context(), id)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	if summary == nil {
		return c.Status(fiber.StatusNotFound).JSON(lib.MessageResponse("User not found"))
	}

	return c.Status(fiber.StatusOK).JSON(summary)
}
