package stores

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devlinkhq/devlink-backend/src/models"
)

// SkillStore is the data-access object for the skills collection.
type SkillStore struct {
	col *mongo.Collection
}

func NewSkillStore(db *mongo.Database) *SkillStore {
	return &SkillStore{col: db.Collection("skills")}
}

func (s *SkillStore) Insert(ctx context.Context, skill *models.Skill) error {
	if skill.Id.IsZero() {
		skill.Id = primitive.NewObjectID()
	}
	_, err := s.col.InsertOne(ctx, skill)
	return err
}

// ByID returns the skill, or (nil, nil) when absent.
func (s *SkillStore) ByID(ctx context.Context, id primitive.ObjectID) (*models.Skill, error) {
	var skill models.Skill
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&skill)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &skill, nil
}

// ByUser returns the user's skills, featured first, then by category and
// name.
func (s *SkillStore) ByUser(ctx context.Context, user primitive.ObjectID) ([]models.Skill, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "featured", Value: -1},
		{Key: "category", Value: 1},
		{Key: "name", Value: 1},
	})
	return s.find(ctx, bson.M{"user": user}, opts)
}

// NameExists reports whether the user already lists a skill with the
// name, case-insensitively.
func (s *SkillStore) NameExists(ctx context.Context, user primitive.ObjectID, name string) (bool, error) {
	filter := bson.M{
		"user": user,
		"name": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(name) + "$", Options: "i"},
	}
	count, err := s.col.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CategoriesFor groups the user's skills by category with counts.
func (s *SkillStore) CategoriesFor(ctx context.Context, user primitive.ObjectID) ([]models.SkillCategoryCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user": user}}},
		{{Key: "$group", Value: bson.M{"_id": "$category", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	buckets := []models.SkillCategoryCount{}
	if err := cursor.All(ctx, &buckets); err != nil {
		return nil, err
	}
	return buckets, nil
}

// SkillUpdate carries the fields of a partial skill edit; nil fields are
// left untouched.
type SkillUpdate struct {
	Name              *string
	Category          *string
	Proficiency       *string
	YearsOfExperience *int
	Description       *string
	Featured          *bool
	Certifications    []models.Certification
}

func (s *SkillStore) Update(ctx context.Context, id primitive.ObjectID, patch SkillUpdate) error {
	set := bson.M{"updatedAt": time.Now()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Proficiency != nil {
		set["proficiency"] = *patch.Proficiency
	}
	if patch.YearsOfExperience != nil {
		set["yearsOfExperience"] = *patch.YearsOfExperience
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Featured != nil {
		set["featured"] = *patch.Featured
	}
	if patch.Certifications != nil {
		set["certifications"] = patch.Certifications
	}

	_, err := s.col.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

func (s *SkillStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// AddEndorsement prepends an endorsement and flags the skill as endorsed.
func (s *SkillStore) AddEndorsement(ctx context.Context, id primitive.ObjectID, e models.Endorsement) error {
	update := bson.M{
		"$push": bson.M{"endorsements": bson.M{
			"$each":     []models.Endorsement{e},
			"$position": 0,
		}},
		"$set": bson.M{"isEndorsed": true},
	}
	_, err := s.col.UpdateByID(ctx, id, update)
	return err
}

// RemoveEndorsement withdraws one user's endorsement. stillEndorsed is
// the flag value after the removal.
func (s *SkillStore) RemoveEndorsement(ctx context.Context, id, user primitive.ObjectID, stillEndorsed bool) error {
	update := bson.M{
		"$pull": bson.M{"endorsements": bson.M{"user": user}},
		"$set":  bson.M{"isEndorsed": stillEndorsed},
	}
	_, err := s.col.UpdateByID(ctx, id, update)
	return err
}

// Search filters skills by name, category and proficiency, the most
// endorsed first. The name is matched literally.
func (s *SkillStore) Search(ctx context.Context, name, category, proficiency string, limit int64) ([]models.Skill, error) {
	filter := bson.M{}
	if name != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(name), Options: "i"}
	}
	if category != "" {
		filter["category"] = category
	}
	if proficiency != "" {
		filter["proficiency"] = proficiency
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "endorsements", Value: -1}, {Key: "featured", Value: -1}, {Key: "name", Value: 1}}).
		SetLimit(limit)
	return s.find(ctx, filter, opts)
}

func (s *SkillStore) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Skill, error) {
	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	skills := []models.Skill{}
	if err := cursor.All(ctx, &skills); err != nil {
		return nil, err
	}
	return skills, nil
}
