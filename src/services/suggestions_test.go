package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devlinkhq/devlink-backend/src/models"
)

type suggestionFixture struct {
	engine   *SuggestionEngine
	conns    *fakeConnStore
	users    *fakeUsers
	profiles *fakeProfiles
}

func newSuggestionFixture() *suggestionFixture {
	conns := newFakeConnStore()
	users := newFakeUsers()
	profiles := newFakeProfiles()

	return &suggestionFixture{
		engine:   NewSuggestionEngine(conns, users, NewEnricher(users, profiles)),
		conns:    conns,
		users:    users,
		profiles: profiles,
	}
}

func (fx *suggestionFixture) connect(a, b primitive.ObjectID, status models.ConnectionStatus) {
	now := time.Now()
	conn := &models.Connection{
		Requester:   a,
		Recipient:   b,
		Status:      status,
		RequestedAt: now,
	}
	if status != models.ConnectionStatusPending {
		conn.RespondedAt = &now
	}
	_ = fx.conns.Insert(context.Background(), conn)
}

func TestSuggestExcludesSelfAndAllConnectionParties(t *testing.T) {
	fx := newSuggestionFixture()
	viewer := fx.users.add("Viewer", "viewer@example.com")
	accepted := fx.users.add("Accepted", "accepted@example.com")
	pending := fx.users.add("Pending", "pending@example.com")
	rejected := fx.users.add("Rejected", "rejected@example.com")
	fresh := fx.users.add("Fresh", "fresh@example.com")

	fx.connect(viewer, accepted, models.ConnectionStatusAccepted)
	fx.connect(pending, viewer, models.ConnectionStatusPending)
	fx.connect(viewer, rejected, models.ConnectionStatusRejected)

	suggestions, err := fx.engine.Suggest(context.Background(), viewer, 10)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, fresh, suggestions[0].Id)
}

func TestSuggestKeepsInsertionOrderAndLimit(t *testing.T) {
	fx := newSuggestionFixture()
	viewer := fx.users.add("Viewer", "viewer@example.com")
	first := fx.users.add("First", "first@example.com")
	second := fx.users.add("Second", "second@example.com")
	fx.users.add("Third", "third@example.com")

	suggestions, err := fx.engine.Suggest(context.Background(), viewer, 2)
	require.NoError(t, err)
	require.Len(t, suggestions, 2)
	assert.Equal(t, first, suggestions[0].Id)
	assert.Equal(t, second, suggestions[1].Id)
}

func TestSuggestEnrichesFromProfiles(t *testing.T) {
	fx := newSuggestionFixture()
	viewer := fx.users.add("Viewer", "viewer@example.com")
	candidate := fx.users.add("Candidate", "candidate@example.com")
	fx.profiles.set(candidate, models.Profile{
		Bio:      "builds things",
		Location: "Lisbon",
		Skills:   []string{"go", "mongo"},
	})

	suggestions, err := fx.engine.Suggest(context.Background(), viewer, 10)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)

	got := suggestions[0]
	assert.Equal(t, "Candidate", got.Name)
	require.NotNil(t, got.Bio)
	assert.Equal(t, "builds things", *got.Bio)
	require.NotNil(t, got.Location)
	assert.Equal(t, "Lisbon", *got.Location)
	assert.Equal(t, []string{"go", "mongo"}, got.Skills)
	assert.Nil(t, got.ProfilePicture)
}

func TestSuggestProfileFieldsNullWithoutProfile(t *testing.T) {
	fx := newSuggestionFixture()
	viewer := fx.users.add("Viewer", "viewer@example.com")
	fx.users.add("Candidate", "candidate@example.com")

	suggestions, err := fx.engine.Suggest(context.Background(), viewer, 10)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Nil(t, suggestions[0].Bio)
	assert.Nil(t, suggestions[0].Location)
	assert.Empty(t, suggestions[0].Skills)
	assert.NotNil(t, suggestions[0].Skills)
}
