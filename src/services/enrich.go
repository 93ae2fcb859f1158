package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devlinkhq/devlink-backend/src/models"
)

// UserDirectory resolves user ids to name/email summaries. Lookups return
// (nil, nil) when the user does not exist.
type UserDirectory interface {
	Summary(ctx context.Context, id primitive.ObjectID) (*models.UserRef, error)
}

// ProfileLookup resolves a user id to their profile, (nil, nil) when the
// user has none.
type ProfileLookup interface {
	ByUser(ctx context.Context, user primitive.ObjectID) (*models.Profile, error)
}

// Enricher assembles response-side user shapes from the user directory
// and the profile store. It is strictly read-only and kept out of the
// write paths.
type Enricher struct {
	users    UserDirectory
	profiles ProfileLookup
}

func NewEnricher(users UserDirectory, profiles ProfileLookup) *Enricher {
	return &Enricher{users: users, profiles: profiles}
}

// UserRef returns the user's summary with the profile picture attached.
// A missing user yields a ref carrying only the id, so callers can keep
// rendering lists that reference deleted accounts.
func (e *Enricher) UserRef(ctx context.Context, id primitive.ObjectID) (models.UserRef, error) {
	ref, err := e.users.Summary(ctx, id)
	if err != nil {
		return models.UserRef{}, err
	}
	if ref == nil {
		return models.UserRef{Id: id}, nil
	}

	profile, err := e.profiles.ByUser(ctx, id)
	if err != nil {
		return models.UserRef{}, err
	}
	if profile != nil && profile.ProfilePicture != "" {
		pic := profile.ProfilePicture
		ref.ProfilePicture = &pic
	}
	return *ref, nil
}

// EnrichedUser returns the user's summary plus public profile fields.
// Profile-derived fields stay null when the user has no profile.
func (e *Enricher) EnrichedUser(ctx context.Context, id primitive.ObjectID) (models.EnrichedUser, error) {
	out := models.EnrichedUser{Id: id, Skills: []string{}}

	ref, err := e.users.Summary(ctx, id)
	if err != nil {
		return out, err
	}
	if ref != nil {
		out.Name = ref.Name
		out.Email = ref.Email
	}

	profile, err := e.profiles.ByUser(ctx, id)
	if err != nil {
		return out, err
	}
	if profile != nil {
		if profile.ProfilePicture != "" {
			pic := profile.ProfilePicture
			out.ProfilePicture = &pic
		}
		if profile.Bio != "" {
			bio := profile.Bio
			out.Bio = &bio
		}
		if profile.Location != "" {
			loc := profile.Location
			out.Location = &loc
		}
		if len(profile.Skills) > 0 {
			out.Skills = profile.Skills
		}
	}
	return out, nil
}
