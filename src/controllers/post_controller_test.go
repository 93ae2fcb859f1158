package controllers_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/devlinkhq/devlink-backend/src/controllers"
	"github.com/devlinkhq/devlink-backend/src/models"
	"github.com/devlinkhq/devlink-backend/src/routes"
)

// newPostValidationApp wires the post routes with no storage behind
// them; the input checks under test all reject before any query runs.
func newPostValidationApp(user primitive.ObjectID) *fiber.App {
	ctrl := controllers.NewTestPostController(zap.NewNop())

	app := fiber.New()
	protect := func(c *fiber.Ctx) error {
		c.Locals("user", models.User{Id: user, Name: "Ada", Email: "ada@example.com"})
		return c.Next()
	}
	routes.PostRoutes(app, ctrl, protect)
	return app
}

func TestCreatePostEndpointContentTooLong(t *testing.T) {
	ada := primitive.NewObjectID()
	app := newPostValidationApp(ada)

	resp, payload := doRequest(t, app, http.MethodPost, "/api/posts/", ada,
		fiber.Map{"content": strings.Repeat("a", 2001)})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Post content must be 2000 characters or less", message(t, payload))
}

func TestCreatePostEndpointInvalidType(t *testing.T) {
	ada := primitive.NewObjectID()
	app := newPostValidationApp(ada)

	resp, payload := doRequest(t, app, http.MethodPost, "/api/posts/", ada,
		fiber.Map{"content": "hello", "postType": "video"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid post type", message(t, payload))
}

func TestCreatePostEndpointInvalidVisibility(t *testing.T) {
	ada := primitive.NewObjectID()
	app := newPostValidationApp(ada)

	resp, payload := doRequest(t, app, http.MethodPost, "/api/posts/", ada,
		fiber.Map{"content": "hello", "visibility": "friends-only"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid visibility", message(t, payload))
}

func TestUpdatePostEndpointContentTooLong(t *testing.T) {
	ada := primitive.NewObjectID()
	app := newPostValidationApp(ada)

	resp, payload := doRequest(t, app, http.MethodPut,
		fmt.Sprintf("/api/posts/%s", primitive.NewObjectID().Hex()), ada,
		fiber.Map{"content": strings.Repeat("a", 2001)})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Post content must be 2000 characters or less", message(t, payload))
}

func TestUpdatePostEndpointInvalidVisibility(t *testing.T) {
	ada := primitive.NewObjectID()
	app := newPostValidationApp(ada)

	resp, payload := doRequest(t, app, http.MethodPut,
		fmt.Sprintf("/api/posts/%s", primitive.NewObjectID().Hex()), ada,
		fiber.Map{"visibility": "everyone"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid visibility", message(t, payload))
}

func TestAddCommentEndpointContentTooLong(t *testing.T) {
	ada := primitive.NewObjectID()
	app := newPostValidationApp(ada)

	resp, payload := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/api/posts/%s/comment", primitive.NewObjectID().Hex()), ada,
		fiber.Map{"content": strings.Repeat("a", 501)})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Comment content must be 500 characters or less", message(t, payload))
}
