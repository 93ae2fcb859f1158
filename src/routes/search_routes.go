package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/devlinkhq/devlink-backend/src/controllers"
)

func SearchRoutes(app *fiber.App, ctrl *controllers.SearchController, protect fiber.Handler) {
	search := app.Group("/api/search", protect)

	search.Get("/users", ctrl.SearchUsers)
	search.Get("/posts", ctrl.SearchPosts)
	search.Get("/all", ctrl.SearchAll)
}
