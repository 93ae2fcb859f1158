package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/devlinkhq/devlink-backend/src/controllers"
)

// ConnectionRoutes sets up connection-related routes for sending, accepting,
// rejecting requests, listing requests, getting connections, removing
// connections, suggestions and status checks.
func ConnectionRoutes(app *fiber.App, ctrl *controllers.ConnectionController, protect fiber.Handler) {
	connection := app.Group("/api/connections", protect)

	connection.Post("/request", ctrl.SendRequest)
	connection.Get("/requests/received", ctrl.GetReceivedRequests)
	connection.Get("/requests/sent", ctrl.GetSentRequests)
	connection.Get("/suggestions", ctrl.GetSuggestions)
	connection.Get("/status/:userId", ctrl.GetStatus)
	connection.Put("/:id/accept", ctrl.Accept)
	connection.Put("/:id/reject", ctrl.Reject)
	connection.Get("/", ctrl.GetConnections)
	connection.Delete("/:id", ctrl.Remove)
}
