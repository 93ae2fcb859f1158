package controllers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/devlinkhq/devlink-backend/src/lib"
	"github.com/devlinkhq/devlink-backend/src/services"
)

const suggestionLimit = 10

type ConnectionController struct {
	registry    *services.Registry
	suggestions *services.SuggestionEngine
	log         *zap.Logger
}

func NewConnectionController(registry *services.Registry, suggestions *services.SuggestionEngine, log *zap.Logger) *ConnectionController {
	return &ConnectionController{
		registry:    registry,
		suggestions: suggestions,
		log:         log,
	}
}

// SendRequest sends a connection request from the authenticated user to
// the user named in the body.
func (ctrl *ConnectionController) SendRequest(c *fiber.Ctx) error {
	var body struct {
		RecipientId string `json:"recipientId"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request body"))
	}

	recipientID, err := primitive.ObjectIDFromHex(body.RecipientId)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid user ID format"))
	}

	user := currentUser(c)
	connection, err := ctrl.registry.SendRequest(c.Context(), user.Id, recipientID)
	if err != nil {
		return fail(c, ctrl.log, err)
	}

	return c.Status(fiber.StatusOK).JSON(connection)
}

// GetReceivedRequests returns pending requests addressed to the caller.
func (ctrl *ConnectionController) GetReceivedRequests(c *fiber.Ctx) error {
	user := currentUser(c)

	requests, err := ctrl.registry.ListPending(c.Context(), user.Id, services.DirectionReceived)
	if err != nil {
		return fail(c, ctrl.log, err)
	}

	return c.Status(fiber.StatusOK).JSON(requests)
}

// GetSentRequests returns pending requests the caller has sent.
func (ctrl *ConnectionController) GetSentRequests(c *fiber.Ctx) error {
	user := currentUser(c)

	requests, err := ctrl.registry.ListPending(c.Context(), user.Id, services.DirectionSent)
	if err != nil {
		return fail(c, ctrl.log, err)
	}

	return c.Status(fiber.StatusOK).JSON(requests)
}

// Accept accepts a pending connection request addressed to the caller.
func (ctrl *ConnectionController) Accept(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid connection ID format"))
	}

	user := currentUser(c)
	connection, err := ctrl.registry.Accept(c.Context(), id, user.Id)
	if err != nil {
		return fail(c, ctrl.log, err)
	}

	return c.Status(fiber.StatusOK).JSON(connection)
}

// Reject rejects a pending connection request addressed to the caller.
func (ctrl *ConnectionController) Reject(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid connection ID format"))
	}

	user := currentUser(c)
	if err := ctrl.registry.Reject(c.Context(), id, user.Id); err != nil {
		return fail(c, ctrl.log, err)
	}

	return c.Status(fiber.StatusOK).JSON(lib.MessageResponse("Connection request rejected"))
}

// GetConnections lists the caller's accepted connections.
func (ctrl *ConnectionController) GetConnections(c *fiber.Ctx) error {
	user := currentUser(c)

	entries, err := ctrl.registry.ListAccepted(c.Context(), user.Id)
	if err != nil {
		return fail(c, ctrl.log, err)
	}

	return c.Status(fiber.StatusOK).JSON(entries)
}

// Remove deletes a connection the caller is part of, in any status.
func (ctrl *ConnectionController) Remove(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid connection ID format"))
	}

	user := currentUser(c)
	if err := ctrl.registry.Remove(c.Context(), id, user.Id); err != nil {
		return fail(c, ctrl.log, err)
	}

	return c.Status(fiber.StatusOK).JSON(lib.MessageResponse("Connection removed"))
}

// GetSuggestions returns people the caller might want to connect with.
func (ctrl *ConnectionController) GetSuggestions(c *fiber.Ctx) error {
	user := currentUser(c)

	suggestions, err := ctrl.suggestions.Suggest(c.Context(), user.Id, suggestionLimit)
	if err != nil {
		return fail(c, ctrl.log, err)
	}

	return c.Status(fiber.StatusOK).JSON(suggestions)
}

// GetStatus reports the relationship between the caller and another user.
func (ctrl *ConnectionController) GetStatus(c *fiber.Ctx) error {
	otherID, err := primitive.ObjectIDFromHex(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid user ID format"))
	}

	user := currentUser(c)
	info, err := ctrl.registry.Status(c.Context(), user.Id, otherID)
	if err != nil {
		return fail(c, ctrl.log, err)
	}

	return c.Status(fiber.StatusOK).JSON(info)
}
