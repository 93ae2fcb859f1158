package lib

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ConnectDB opens a MongoDB connection and returns the database handle.
// The handle is passed to the stores at startup; nothing keeps a package
// level reference to it.
func ConnectDB(ctx context.Context, uri, name string) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, err
	}

	return client.Database(name), nil
}

// EnsureIndexes creates the indexes the query paths rely on. The unique
// (requester, recipient) index on connections only blocks exact-direction
// duplicates; the send-request handler runs the bidirectional existence
// check itself.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	byCollection := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		"connections": {
			{Keys: bson.D{{Key: "requester", Value: 1}, {Key: "recipient", Value: 1}}, Options: unique},
		},
		"notifications": {
			{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "isRead", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		"profiles": {
			{Keys: bson.D{{Key: "user", Value: 1}}, Options: unique},
		},
		"posts": {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "visibility", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		"skills": {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "name", Value: 1}}, Options: unique},
		},
		"conversations": {
			{Keys: bson.D{{Key: "participants", Value: 1}}},
			{Keys: bson.D{{Key: "lastMessageAt", Value: -1}}},
		},
		"messages": {
			{Keys: bson.D{{Key: "conversation", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "isRead", Value: 1}}},
		},
	}

	for coll, models := range byCollection {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}

	return nil
}
