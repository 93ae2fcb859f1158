package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/devlinkhq/devlink-backend/src/controllers"
)

func SkillRoutes(app *fiber.App, ctrl *controllers.SkillController, protect fiber.Handler) {
	skill := app.Group("/api/skills")

	skill.Get("/me", protect, ctrl.GetMine)
	skill.Get("/categories", protect, ctrl.GetCategories)
	skill.Get("/search", ctrl.Search)
	skill.Get("/user/:userId", ctrl.GetByUser)
	skill.Post("/", protect, ctrl.Create)
	skill.Post("/:id/endorse", protect, ctrl.Endorse)
	skill.Delete("/:id/endorse", protect, ctrl.Unendorse)
	skill.Put("/:id", protect, ctrl.Update)
	skill.Delete("/:id", protect, ctrl.Delete)
}
