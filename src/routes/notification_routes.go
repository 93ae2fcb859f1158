package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/devlinkhq/devlink-backend/src/controllers"
)

func NotificationRoutes(app *fiber.App, ctrl *controllers.NotificationController, protect fiber.Handler) {
	notification := app.Group("/api/notifications", protect)

	notification.Get("/unread-count", ctrl.UnreadCount)
	notification.Put("/mark-read", ctrl.MarkRead)
	notification.Put("/mark-all-read", ctrl.MarkAllRead)
	notification.Get("/", ctrl.List)
	notification.Delete("/:id", ctrl.Delete)
	notification.Delete("/", ctrl.DeleteAll)
}
