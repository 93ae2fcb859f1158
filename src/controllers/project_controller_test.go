package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/devlinkhq/devlink-backend/src/controllers"
	"github.com/devlinkhq/devlink-backend/src/models"
	"github.com/devlinkhq/devlink-backend/src/routes"
)

func newProjectValidationApp(user primitive.ObjectID) *fiber.App {
	ctrl := controllers.NewTestProjectController(zap.NewNop())

	app := fiber.New()
	protect := func(c *fiber.Ctx) error {
		c.Locals("user", models.User{Id: user, Name: "Ada", Email: "ada@example.com"})
		return c.Next()
	}
	routes.ProjectRoutes(app, ctrl, protect)
	return app
}

func TestCreateProjectEndpointInvalidStatus(t *testing.T) {
	ada := primitive.NewObjectID()
	app := newProjectValidationApp(ada)

	resp, payload := doRequest(t, app, http.MethodPost, "/api/projects/", ada, fiber.Map{
		"title":        "devlink",
		"description":  "a developer network",
		"technologies": []string{"go"},
		"status":       "shipped",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid project status", message(t, payload))
}

func TestUpdateProjectEndpointInvalidStatus(t *testing.T) {
	ada := primitive.NewObjectID()
	app := newProjectValidationApp(ada)

	resp, payload := doRequest(t, app, http.MethodPut,
		fmt.Sprintf("/api/projects/%s", primitive.NewObjectID().Hex()), ada,
		fiber.Map{"status": "shipped"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid project status", message(t, payload))
}
