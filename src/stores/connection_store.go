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

// ConnectionStore is the data-access object for the connections collection.
type ConnectionStore struct {
	col *mongo.Collection
}

func NewConnectionStore(db *mongo.Database) *ConnectionStore {
	return &ConnectionStore{col: db.Collection("connections")}
}

func (s *ConnectionStore) Insert(ctx context.Context, conn *models.Connection) error {
	if conn.Id.IsZero() {
		conn.Id = primitive.NewObjectID()
	}
	_, err := s.col.InsertOne(ctx, conn)
	return err
}

// ByID returns the connection, or (nil, nil) when absent.
func (s *ConnectionStore) ByID(ctx context.Context, id primitive.ObjectID) (*models.Connection, error) {
	var conn models.Connection
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&conn)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

// Between returns the connection between two users in either direction and
// any status, or (nil, nil) when none exists.
func (s *ConnectionStore) Between(ctx context.Context, a, b primitive.ObjectID) (*models.Connection, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"requester": a, "recipient": b},
			{"requester": b, "recipient": a},
		},
	}

	var conn models.Connection
	err := s.col.FindOne(ctx, filter).Decode(&conn)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

// MarkResponded transitions a connection out of pending. The filter pins
// status to pending so concurrent responders cannot both succeed; the
// second caller gets matched=false.
func (s *ConnectionStore) MarkResponded(ctx context.Context, id primitive.ObjectID, status models.ConnectionStatus, at time.Time) (bool, error) {
	filter := bson.M{"_id": id, "status": models.ConnectionStatusPending}
	update := bson.M{"$set": bson.M{"status": status, "respondedAt": at}}

	result, err := s.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

func (s *ConnectionStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// PendingFor returns pending connections where the user is on the given
// side, newest request first.
func (s *ConnectionStore) PendingFor(ctx context.Context, user primitive.ObjectID, side string) ([]models.Connection, error) {
	filter := bson.M{side: user, "status": models.ConnectionStatusPending}
	opts := options.Find().SetSort(bson.M{"requestedAt": -1})
	return s.find(ctx, filter, opts)
}

// AcceptedInvolving returns accepted connections with the user on either
// side, most recently accepted first.
func (s *ConnectionStore) AcceptedInvolving(ctx context.Context, user primitive.ObjectID) ([]models.Connection, error) {
	filter := bson.M{
		"status": models.ConnectionStatusAccepted,
		"$or": []bson.M{
			{"requester": user},
			{"recipient": user},
		},
	}
	opts := options.Find().SetSort(bson.M{"respondedAt": -1})
	return s.find(ctx, filter, opts)
}

// Involving returns every connection touching the user, in any status.
func (s *ConnectionStore) Involving(ctx context.Context, user primitive.ObjectID) ([]models.Connection, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"requester": user},
			{"recipient": user},
		},
	}
	return s.find(ctx, filter, nil)
}

func (s *ConnectionStore) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Connection, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = s.col.Find(ctx, filter, opts)
	} else {
		cursor, err = s.col.Find(ctx, filter)
	}
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var conns []models.Connection
	if err := cursor.All(ctx, &conns); err != nil {
		return nil, err
	}
	return conns, nil
}
