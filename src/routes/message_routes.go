package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/devlinkhq/devlink-backend/src/controllers"
)

func MessageRoutes(app *fiber.App, ctrl *controllers.MessageController, protect fiber.Handler) {
	message := app.Group("/api/messages", protect)

	message.Get("/conversations", ctrl.GetConversations)
	message.Post("/conversations", ctrl.OpenConversation)
	message.Get("/conversations/:id/messages", ctrl.GetMessages)
	message.Post("/messages", ctrl.Send)
}
