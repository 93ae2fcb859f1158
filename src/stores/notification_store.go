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

// NotificationStore is the data-access object for the notifications
// collection.
type NotificationStore struct {
	col *mongo.Collection
}

func NewNotificationStore(db *mongo.Database) *NotificationStore {
	return &NotificationStore{col: db.Collection("notifications")}
}

func (s *NotificationStore) Insert(ctx context.Context, n *models.Notification) error {
	if n.Id.IsZero() {
		n.Id = primitive.NewObjectID()
	}
	_, err := s.col.InsertOne(ctx, n)
	return err
}

// ByRecipient returns a page of the recipient's notifications, newest
// first.
func (s *NotificationStore) ByRecipient(ctx context.Context, recipient primitive.ObjectID, skip, limit int64) ([]models.Notification, error) {
	filter := bson.M{"recipient": recipient}
	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (s *NotificationStore) CountUnread(ctx context.Context, recipient primitive.ObjectID) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{"recipient": recipient, "isRead": false})
}

// MarkRead flags the given notifications as read, restricted to the
// recipient. Ids owned by someone else simply do not match.
func (s *NotificationStore) MarkRead(ctx context.Context, ids []primitive.ObjectID, recipient primitive.ObjectID, at time.Time) (int64, error) {
	filter := bson.M{
		"_id":       bson.M{"$in": ids},
		"recipient": recipient,
	}
	update := bson.M{"$set": bson.M{"isRead": true, "readAt": at}}

	result, err := s.col.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (s *NotificationStore) MarkAllRead(ctx context.Context, recipient primitive.ObjectID, at time.Time) error {
	filter := bson.M{"recipient": recipient, "isRead": false}
	update := bson.M{"$set": bson.M{"isRead": true, "readAt": at}}

	_, err := s.col.UpdateMany(ctx, filter, update)
	return err
}

// ByID returns the notification, or (nil, nil) when absent.
func (s *NotificationStore) ByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	var n models.Notification
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&n)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *NotificationStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (s *NotificationStore) DeleteAllFor(ctx context.Context, recipient primitive.ObjectID) (int64, error) {
	result, err := s.col.DeleteMany(ctx, bson.M{"recipient": recipient})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
