package stores

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devlinkhq/devlink-backend/src/models"
)

// ProfileStore is the data-access object for the profiles collection.
type ProfileStore struct {
	col *mongo.Collection
}

func NewProfileStore(db *mongo.Database) *ProfileStore {
	return &ProfileStore{col: db.Collection("profiles")}
}

// ByUser returns the profile owned by the user, or (nil, nil) when the
// user has none.
func (s *ProfileStore) ByUser(ctx context.Context, user primitive.ObjectID) (*models.Profile, error) {
	var profile models.Profile
	err := s.col.FindOne(ctx, bson.M{"user": user}).Decode(&profile)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Upsert writes the scalar profile fields, creating the document on first
// use. Experience and education entries are managed separately.
func (s *ProfileStore) Upsert(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	filter := bson.M{"user": profile.User}
	update := bson.M{
		"$set": bson.M{
			"bio":            profile.Bio,
			"location":       profile.Location,
			"skills":         profile.Skills,
			"profilePicture": profile.ProfilePicture,
			"social":         profile.Social,
		},
		"$setOnInsert": bson.M{
			"user":       profile.User,
			"experience": []models.Experience{},
			"education":  []models.Education{},
			"createdAt":  profile.CreatedAt,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var updated models.Profile
	if err := s.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *ProfileStore) All(ctx context.Context) ([]models.Profile, error) {
	cursor, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var profiles []models.Profile
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// AddExperience prepends an experience entry, returning the updated
// profile. Returns (nil, nil) when the user has no profile yet.
func (s *ProfileStore) AddExperience(ctx context.Context, user primitive.ObjectID, exp models.Experience) (*models.Profile, error) {
	return s.push(ctx, user, "experience", exp)
}

func (s *ProfileStore) RemoveExperience(ctx context.Context, user, entry primitive.ObjectID) (*models.Profile, error) {
	return s.pull(ctx, user, "experience", entry)
}

func (s *ProfileStore) AddEducation(ctx context.Context, user primitive.ObjectID, edu models.Education) (*models.Profile, error) {
	return s.push(ctx, user, "education", edu)
}

func (s *ProfileStore) RemoveEducation(ctx context.Context, user, entry primitive.ObjectID) (*models.Profile, error) {
	return s.pull(ctx, user, "education", entry)
}

func (s *ProfileStore) DeleteByUser(ctx context.Context, user primitive.ObjectID) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"user": user})
	return err
}

func (s *ProfileStore) push(ctx context.Context, user primitive.ObjectID, field string, entry interface{}) (*models.Profile, error) {
	update := bson.M{
		"$push": bson.M{
			field: bson.M{
				"$each":     []interface{}{entry},
				"$position": 0,
			},
		},
	}
	return s.findAndUpdate(ctx, user, update)
}

func (s *ProfileStore) pull(ctx context.Context, user primitive.ObjectID, field string, entry primitive.ObjectID) (*models.Profile, error) {
	update := bson.M{
		"$pull": bson.M{
			field: bson.M{"_id": entry},
		},
	}
	return s.findAndUpdate(ctx, user, update)
}

func (s *ProfileStore) findAndUpdate(ctx context.Context, user primitive.ObjectID, update bson.M) (*models.Profile, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Profile
	err := s.col.FindOneAndUpdate(ctx, bson.M{"user": user}, update, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
