package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/devlinkhq/devlink-backend/src/controllers"
)

func UserRoutes(app *fiber.App, ctrl *controllers.UserController, protect fiber.Handler) {
	user := app.Group("/api/users")

	user.Post("/register", ctrl.Register)
	user.Get("/me", protect, ctrl.GetMe)
	user.Get("/:id", protect, ctrl.GetByID)
}
