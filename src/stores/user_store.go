package stores

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devlinkhq/devlink-backend/src/models"
)

// UserStore is the data-access object for the users collection. It doubles
// as the user directory the enrichment step reads from.
type UserStore struct {
	col *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{col: db.Collection("users")}
}

func (s *UserStore) Insert(ctx context.Context, user *models.User) error {
	if user.Id.IsZero() {
		user.Id = primitive.NewObjectID()
	}
	_, err := s.col.InsertOne(ctx, user)
	return err
}

// ByID returns the full user record, or (nil, nil) when absent.
func (s *UserStore) ByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) ByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Summary returns the name/email projection of a user, or (nil, nil) when
// the user does not exist.
func (s *UserStore) Summary(ctx context.Context, id primitive.ObjectID) (*models.UserRef, error) {
	opts := options.FindOne().SetProjection(bson.M{"name": 1, "email": 1})

	var ref models.UserRef
	err := s.col.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&ref)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

// FindExcluding returns users whose id is not in the exclude list, in
// natural collection order, up to limit.
func (s *UserStore) FindExcluding(ctx context.Context, exclude []primitive.ObjectID, limit int64) ([]models.User, error) {
	filter := bson.M{"_id": bson.M{"$nin": exclude}}
	opts := options.Find().
		SetProjection(bson.M{"name": 1, "email": 1}).
		SetLimit(limit)

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Search matches name or email case-insensitively, excluding one user.
// The query is matched literally, not as a pattern.
func (s *UserStore) Search(ctx context.Context, query string, exclude primitive.ObjectID, skip, limit int64) ([]models.User, error) {
	pattern := regexp.QuoteMeta(query)
	filter := bson.M{
		"_id": bson.M{"$ne": exclude},
		"$or": []bson.M{
			{"name": bson.M{"$regex": pattern, "$options": "i"}},
			{"email": bson.M{"$regex": pattern, "$options": "i"}},
		},
	}
	opts := options.Find().
		SetProjection(bson.M{"name": 1, "email": 1}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
