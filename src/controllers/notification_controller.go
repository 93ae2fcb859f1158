package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/devlinkhq/devlink-backend/src/lib"
	"github.com/devlinkhq/devlink-backend/src/services"
)

type NotificationController struct {
	notifications *services.Notifications
	log           *zap.Logger
}

func NewNotificationController(notifications *services.Notifications, log *zap.Logger) *NotificationController {
	return &NotificationController{notifications: notifications, log: log}
}

// List returns a page of the caller's notifications, newest first.
func (ctrl *NotificationController) List(c *fiber.Ctx) error {
	user := currentUser(c)

	page := int64(c.QueryInt("page", 1))
	limit := int64(c.QueryInt("limit", 20))

	views, err := ctrl.notifications.List(c.Context(), user.Id, page, limit)
	if err != nil {
		return fail(c, ctrl.log, err)
	}

	return c.Status(fiber.StatusOK).JSON(views)
}

// UnreadCount returns how many unread notifications the caller has.
func (ctrl *NotificationController) UnreadCount(c *fiber.Ctx) error {
	user := currentUser(c)

	count, err := ctrl.notifications.UnreadCount(c.Context(), user.Id)
	if err != nil {
		return fail(c, ctrl.log, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"count": count})
}

// MarkRead marks the listed notifications as read. Ids the caller does
// not own are ignored.
func (ctrl *NotificationController) MarkRead(c *fiber.Ctx) error {
	var body struct {
		NotificationIds []string `json:"notificationIds"`
	}
	if err := c.BodyParser(&body); err != nil || body.NotificationIds == nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid notification IDs"))
	}

	ids := make([]primitive.ObjectID, 0, len(body.NotificationIds))
	for _, raw := range body.NotificationIds {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid notification IDs"))
		}
		ids = append(ids, id)
	}

	user := currentUser(c)
	if err := ctrl.notifications.MarkRead(c.Context(), ids, user.Id); err != nil {
		return fail(c, ctrl.log, err)
	}

	return c.Status(fiber.StatusOK).JSON(lib.MessageResponse("Notifications marked as read"))
}

// MarkAllRead marks every unread notification of the caller as read.
func (ctrl *NotificationController) MarkAllRead(c *fiber.Ctx) error {
	user := currentUser(c)

	if err := ctrl.notifications.MarkAllRead(c.Context(), user.Id); err != nil {
		return fail(c, ctrl.log, err)
	}

	return c.Status(fiber.StatusOK).JSON(lib.MessageResponse("All notifications marked as read"))
}

// Delete removes one of the caller's notifications.
func (ctrl *NotificationController) Delete(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid notification ID"))
	}

	user := currentUser(c)
	if err := ctrl.notifications.Delete(c.Context(), id, user.Id); err != nil {
		return fail(c, ctrl.log, err)
	}

	return c.Status(fiber.StatusOK).JSON(lib.MessageResponse("Notification removed"))
}

// DeleteAll removes every notification of the caller.
func (ctrl *NotificationController) DeleteAll(c *fiber.Ctx) error {
	user := currentUser(c)

	if err := ctrl.notifications.DeleteAll(c.Context(), user.Id); err != nil {
		return fail(c, ctrl.log, err)
	}

	return c.Status(fiber.StatusOK).JSON(lib.MessageResponse("All notifications removed"))
}
