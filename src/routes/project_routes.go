package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/devlinkhq/devlink-backend/src/controllers"
)

func ProjectRoutes(app *fiber.App, ctrl *controllers.ProjectController, protect fiber.Handler) {
	project := app.Group("/api/projects")

	project.Get("/", ctrl.GetAll)
	project.Get("/me", protect, ctrl.GetMine)
	project.Get("/featured/all", ctrl.GetFeatured)
	project.Get("/user/:userId", ctrl.GetByUser)
	project.Post("/", protect, ctrl.Create)
	project.Get("/:id", ctrl.GetByID)
	project.Put("/:id", protect, ctrl.Update)
	project.Delete("/:id", protect, ctrl.Delete)
}
