package controllers

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/devlinkhq/devlink-backend/src/lib"
	"github.com/devlinkhq/devlink-backend/src/models"
	"github.com/devlinkhq/devlink-backend/src/services"
)

const messagePageLimit = 50

// MessageStore is the persistence contract of the messaging handlers.
// The ByID/Between lookups return (nil, nil) when no document matches.
type MessageStore interface {
	ConversationsFor(ctx context.Context, user primitive.ObjectID) ([]models.Conversation, error)
	ConversationByID(ctx context.Context, id primitive.ObjectID) (*models.Conversation, error)
	ConversationBetween(ctx context.Context, a, b primitive.ObjectID) (*models.Conversation, error)
	InsertConversation(ctx context.Context, conversation *models.Conversation) error
	TouchConversation(ctx context.Context, id primitive.ObjectID, lastMessage string, at time.Time) error
	MessagesBefore(ctx context.Context, conversation primitive.ObjectID, before *time.Time, limit int64) ([]models.Message, error)
	MarkMessagesRead(ctx context.Context, ids []primitive.ObjectID) error
	CountUnread(ctx context.Context, conversation, recipient primitive.ObjectID) (int64, error)
	InsertMessage(ctx context.Context, message *models.Message) error
}

type MessageController struct {
	store  MessageStore
	enrich *services.Enricher
	log    *zap.Logger
}

func NewMessageController(store MessageStore, enrich *services.Enricher, log *zap.Logger) *MessageController {
	return &MessageController{
		store:  store,
		enrich: enrich,
		log:    log,
	}
}

// GetConversations lists the caller's conversations, most recent message
// first, with the other participant resolved and the unread count
// attached.
func (ctrl *MessageController) GetConversations(c *fiber.Ctx) error {
	user := currentUser(c)

	conversations, err := ctrl.store.ConversationsFor(c.Context(), user.Id)
	if err != nil {
		return fail(c, ctrl.log, err)
	}

	views := make([]models.ConversationView, 0, len(conversations))
	for _, conv := range conversations {
		var other primitive.ObjectID
		for _, participant := range conv.Participants {
			if participant != user.Id {
				other = participant
				break
			}
		}

		ref, err := ctrl.enrich.UserRef(c.Context(), other)
		if err != nil {
			return fail(c, ctrl.log, err)
		}

		unread, err := ctrl.store.CountUnread(c.Context(), conv.Id, user.Id)
		if err != nil {
			return fail(c, ctrl.log, err)
		}

		views = append(views, models.ConversationView{
			Conversation: conv,
			OtherUser:    &ref,
			UnreadCount:  unread,
		})
	}

	return c.Status(fiber.StatusOK).JSON(views)
}

// OpenConversation finds or creates the pair conversation with another
// user.
func (ctrl *MessageController) OpenConversation(c *fiber.Ctx) error {
	var body struct {
		UserId string `json:"userId"`
	}
	if err := c.BodyParser(&body); err != nil || body.UserId == "" {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("userId is required"))
	}

	otherID, err := primitive.ObjectIDFromHex(body.UserId)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid user ID"))
	}

	user := currentUser(c)
	if otherID == user.Id {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Cannot message yourself"))
	}

	conversation, err := ctrl.findOrCreate(c, user.Id, otherID)
	if err != nil {
		return fail(c, ctrl.log, err)
	}

	return c.Status(fiber.StatusOK).JSON(conversation)
}

// GetMessages returns a page of a conversation, oldest first, and marks
// messages addressed to the caller as read.
func (ctrl *MessageController) GetMessages(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid conversation ID"))
	}

	conversation, err := ctrl.store.ConversationByID(c.Context(), id)
	if err != nil {
		return fail(c, ctrl.log, err)
	}
	if conversation == nil {
		return c.Status(fiber.StatusNotFound).JSON(lib.MessageResponse("Conversation not found"))
	}

	user := currentUser(c)
	member := false
	for _, participant := range conversation.Participants {
		if participant == user.Id {
			member = true
			break
		}
	}
	if !member {
		return c.Status(fiber.StatusForbidden).JSON(lib.MessageResponse("Not authorized"))
	}

	limit := int64(c.QueryInt("limit", messagePageLimit))
	if limit < 1 {
		limit = messagePageLimit
	}

	var cutoff *time.Time
	if before := c.Query("before"); before != "" {
		parsed, err := time.Parse(time.RFC3339, before)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid before timestamp"))
		}
		cutoff = &parsed
	}

	msgs, err := ctrl.store.MessagesBefore(c.Context(), id, cutoff, limit)
	if err != nil {
		return fail(c, ctrl.log, err)
	}

	unread := []primitive.ObjectID{}
	for i := range msgs {
		if msgs[i].Recipient == user.Id && !msgs[i].IsRead {
			unread = append(unread, msgs[i].Id)
			msgs[i].IsRead = true
		}
	}
	if err := ctrl.store.MarkMessagesRead(c.Context(), unread); err != nil {
		return fail(c, ctrl.log, err)
	}

	// fetched newest first, returned in chronological order
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}

	return c.Status(fiber.StatusOK).JSON(msgs)
}

// Send delivers a message to a user, creating the conversation when none
// exists yet.
func (ctrl *MessageController) Send(c *fiber.Ctx) error {
	var body struct {
		RecipientId string `json:"recipientId"`
		Text        string `json:"text"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid request body"))
	}

	body.Text = strings.TrimSpace(body.Text)
	if body.RecipientId == "" || body.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("recipientId and text are required"))
	}

	recipientID, err := primitive.ObjectIDFromHex(body.RecipientId)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Invalid user ID"))
	}

	user := currentUser(c)
	if recipientID == user.Id {
		return c.Status(fiber.StatusBadRequest).JSON(lib.MessageResponse("Cannot message yourself"))
	}

	conversation, err := ctrl.findOrCreate(c, user.Id, recipientID)
	if err != nil {
		return fail(c, ctrl.log, err)
	}

	message := models.Message{
		Id:           primitive.NewObjectID(),
		Conversation: conversation.Id,
		Sender:       user.Id,
		Recipient:    recipientID,
		Text:         body.Text,
		CreatedAt:    time.Now(),
	}
	if err := ctrl.store.InsertMessage(c.Context(), &message); err != nil {
		return fail(c, ctrl.log, err)
	}

	if err := ctrl.store.TouchConversation(c.Context(), conversation.Id, message.Text, message.CreatedAt); err != nil {
		return fail(c, ctrl.log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(message)
}

func (ctrl *MessageController) findOrCreate(c *fiber.Ctx, a, b primitive.ObjectID) (*models.Conversation, error) {
	conversation, err := ctrl.store.ConversationBetween(c.Context(), a, b)
	if err != nil {
		return nil, err
	}
	if conversation != nil {
		return conversation, nil
	}

	conversation = &models.Conversation{
		Id:            primitive.NewObjectID(),
		Participants:  []primitive.ObjectID{a, b},
		LastMessageAt: time.Now(),
	}
	if err := ctrl.store.InsertConversation(c.Context(), conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}
