package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devlinkhq/devlink-backend/src/lib"
	"github.com/devlinkhq/devlink-backend/src/models"
)

// UserLoader resolves an id to the stored user, (nil, nil) when absent.
type UserLoader interface {
	ByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Auth authenticates requests from a bearer JWT and attaches the caller to
// the request context.
type Auth struct {
	users  UserLoader
	secret string
}

func NewAuth(users UserLoader, secret string) *Auth {
	return &Auth{users: users, secret: secret}
}

// ProtectRoute checks for a valid bearer token, loads the caller and
// stores it under c.Locals("user").
func (a *Auth) ProtectRoute(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(lib.MessageResponse("No token provided"))
	}

	var token string
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		token = authHeader[7:]
	} else {
		return c.Status(fiber.StatusUnauthorized).JSON(lib.MessageResponse("Invalid token format"))
	}

	claims, err := lib.VerifyJWT(token, a.secret)
	if err != nil || claims == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(lib.MessageResponse("Invalid token"))
	}

	userID, ok := claims["userId"].(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(lib.MessageResponse("Invalid token"))
	}

	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(lib.MessageResponse("Invalid user ID"))
	}

	user, err := a.users.ByID(c.Context(), objectID)
	if err != nil || user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(lib.MessageResponse("User not found"))
	}

	user.Password = ""
	c.Locals("user", *user)

	return c.Next()
}
