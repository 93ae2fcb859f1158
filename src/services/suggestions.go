package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devlinkhq/devlink-backend/src/models"
)

// ConnectionLookup is the read-only slice of the connection store the
// suggestion engine needs.
type ConnectionLookup interface {
	Involving(ctx context.Context, user primitive.ObjectID) ([]models.Connection, error)
}

// SuggestionSource pages users outside an exclusion set, in natural
// collection order.
type SuggestionSource interface {
	FindExcluding(ctx context.Context, exclude []primitive.ObjectID, limit int64) ([]models.User, error)
}

// SuggestionEngine computes connection candidates: every user except the
// viewer and anyone already touching the viewer's connection graph, in
// any status. Results follow insertion order of the users collection,
// which is stable between calls absent data changes.
type SuggestionEngine struct {
	connections ConnectionLookup
	users       SuggestionSource
	enrich      *Enricher
}

func NewSuggestionEngine(connections ConnectionLookup, users SuggestionSource, enrich *Enricher) *SuggestionEngine {
	return &SuggestionEngine{
		connections: connections,
		users:       users,
		enrich:      enrich,
	}
}

// Suggest returns up to limit candidate users, each enriched with public
// profile fields where a profile exists.
func (s *SuggestionEngine) Suggest(ctx context.Context, user primitive.ObjectID, limit int64) ([]models.EnrichedUser, error) {
	conns, err := s.connections.Involving(ctx, user)
	if err != nil {
		return nil, err
	}

	exclude := make([]primitive.ObjectID, 0, len(conns)+1)
	exclude = append(exclude, user)
	for _, conn := range conns {
		other := conn.Requester
		if other == user {
			other = conn.Recipient
		}
		exclude = append(exclude, other)
	}

	candidates, err := s.users.FindExcluding(ctx, exclude, limit)
	if err != nil {
		return nil, err
	}

	suggestions := make([]models.EnrichedUser, 0, len(candidates))
	for _, candidate := range candidates {
		enriched, err := s.enrich.EnrichedUser(ctx, candidate.Id)
		if err != nil {
			return nil, err
		}
		suggestions = append(suggestions, enriched)
	}
	return suggestions, nil
}
