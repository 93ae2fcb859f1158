package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/devlinkhq/devlink-backend/src/controllers"
)

func ProfileRoutes(app *fiber.App, ctrl *controllers.ProfileController, protect fiber.Handler) {
	profile := app.Group("/api/profile")

	profile.Get("/me", protect, ctrl.GetMe)
	profile.Post("/", protect, ctrl.Upsert)
	profile.Get("/", ctrl.GetAll)
	profile.Get("/user/:userId", ctrl.GetByUser)
	profile.Put("/experience", protect, ctrl.AddExperience)
	profile.Put("/education", protect, ctrl.AddEducation)
	profile.Delete("/experience/:id", protect, ctrl.RemoveExperience)
	profile.Delete("/education/:id", protect, ctrl.RemoveEducation)
	profile.Delete("/", protect, ctrl.DeleteAccount)
}
