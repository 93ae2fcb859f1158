package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/devlinkhq/devlink-backend/src/controllers"
)

func PostRoutes(app *fiber.App, ctrl *controllers.PostController, protect fiber.Handler) {
	post := app.Group("/api/posts")

	post.Get("/", protect, ctrl.GetFeed)
	post.Get("/me", protect, ctrl.GetMine)
	post.Get("/user/:userId", ctrl.GetByUser)
	post.Post("/", protect, ctrl.Create)
	post.Post("/:id/like", protect, ctrl.ToggleLike)
	post.Post("/:id/comment", protect, ctrl.AddComment)
	post.Delete("/:id/comment/:commentId", protect, ctrl.DeleteComment)
	post.Post("/:id/pin", protect, ctrl.TogglePin)
	post.Get("/:id", ctrl.GetByID)
	post.Put("/:id", protect, ctrl.Update)
	post.Delete("/:id", protect, ctrl.Delete)
}
