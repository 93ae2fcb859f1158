package stores

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devlinkhq/devlink-backend/src/models"
)

// MessageStore is the data-access object for the conversations and
// messages collections.
type MessageStore struct {
	conversations *mongo.Collection
	messages      *mongo.Collection
}

func NewMessageStore(db *mongo.Database) *MessageStore {
	return &MessageStore{
		conversations: db.Collection("conversations"),
		messages:      db.Collection("messages"),
	}
}

// ConversationsFor returns the user's conversations, most recent message
// first.
func (s *MessageStore) ConversationsFor(ctx context.Context, user primitive.ObjectID) ([]models.Conversation, error) {
	opts := options.Find().SetSort(bson.M{"lastMessageAt": -1})
	cursor, err := s.conversations.Find(ctx, bson.M{"participants": user}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	conversations := []models.Conversation{}
	if err := cursor.All(ctx, &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

// ConversationByID returns the conversation, or (nil, nil) when absent.
func (s *MessageStore) ConversationByID(ctx context.Context, id primitive.ObjectID) (*models.Conversation, error) {
	var conversation models.Conversation
	err := s.conversations.FindOne(ctx, bson.M{"_id": id}).Decode(&conversation)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

// ConversationBetween returns the pair conversation of two users, or
// (nil, nil) when they have none.
func (s *MessageStore) ConversationBetween(ctx context.Context, a, b primitive.ObjectID) (*models.Conversation, error) {
	filter := bson.M{"participants": bson.M{"$all": []primitive.ObjectID{a, b}}}

	var conversation models.Conversation
	err := s.conversations.FindOne(ctx, filter).Decode(&conversation)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (s *MessageStore) InsertConversation(ctx context.Context, conversation *models.Conversation) error {
	if conversation.Id.IsZero() {
		conversation.Id = primitive.NewObjectID()
	}
	_, err := s.conversations.InsertOne(ctx, conversation)
	return err
}

// TouchConversation updates the last-message preview and timestamp.
func (s *MessageStore) TouchConversation(ctx context.Context, id primitive.ObjectID, lastMessage string, at time.Time) error {
	update := bson.M{"$set": bson.M{
		"lastMessage":   lastMessage,
		"lastMessageAt": at,
	}}
	_, err := s.conversations.UpdateByID(ctx, id, update)
	return err
}

// MessagesBefore returns up to limit messages of a conversation, newest
// first, older than the cutoff when one is given.
func (s *MessageStore) MessagesBefore(ctx context.Context, conversation primitive.ObjectID, before *time.Time, limit int64) ([]models.Message, error) {
	filter := bson.M{"conversation": conversation}
	if before != nil {
		filter["createdAt"] = bson.M{"$lt": *before}
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(limit)
	cursor, err := s.messages.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	messages := []models.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkMessagesRead flags the given messages as read.
func (s *MessageStore) MarkMessagesRead(ctx context.Context, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.messages.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{"isRead": true}})
	return err
}

// CountUnread counts the recipient's unread messages in a conversation.
func (s *MessageStore) CountUnread(ctx context.Context, conversation, recipient primitive.ObjectID) (int64, error) {
	return s.messages.CountDocuments(ctx, bson.M{
		"conversation": conversation,
		"recipient":    recipient,
		"isRead":       false,
	})
}

func (s *MessageStore) InsertMessage(ctx context.Context, message *models.Message) error {
	if message.Id.IsZero() {
		message.Id = primitive.NewObjectID()
	}
	_, err := s.messages.InsertOne(ctx, message)
	return err
}
