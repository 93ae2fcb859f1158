package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/devlinkhq/devlink-backend/src/controllers"
	"github.com/devlinkhq/devlink-backend/src/models"
	"github.com/devlinkhq/devlink-backend/src/routes"
	"github.com/devlinkhq/devlink-backend/src/services"
)

type memConnStore struct {
	conns map[primitive.ObjectID]*models.Connection
	order []primitive.ObjectID
}

func newMemConnStore() *memConnStore {
	return &memConnStore{conns: map[primitive.ObjectID]*models.Connection{}}
}

func (m *memConnStore) Insert(_ context.Context, conn *models.Connection) error {
	if conn.Id.IsZero() {
		conn.Id = primitive.NewObjectID()
	}
	clone := *conn
	m.conns[conn.Id] = &clone
	m.order = append(m.order, conn.Id)
	return nil
}

func (m *memConnStore) ByID(_ context.Context, id primitive.ObjectID) (*models.Connection, error) {
	conn, ok := m.conns[id]
	if !ok {
		return nil, nil
	}
	clone := *conn
	return &clone, nil
}

func (m *memConnStore) Between(_ context.Context, a, b primitive.ObjectID) (*models.Connection, error) {
	for _, id := range m.order {
		conn := m.conns[id]
		if (conn.Requester == a && conn.Recipient == b) || (conn.Requester == b && conn.Recipient == a) {
			clone := *conn
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *memConnStore) MarkResponded(_ context.Context, id primitive.ObjectID, status models.ConnectionStatus, at time.Time) (bool, error) {
	conn, ok := m.conns[id]
	if !ok || conn.Status != models.ConnectionStatusPending {
		return false, nil
	}
	conn.Status = status
	conn.RespondedAt = &at
	return true, nil
}

func (m *memConnStore) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(m.conns, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memConnStore) PendingFor(_ context.Context, user primitive.ObjectID, side string) ([]models.Connection, error) {
	var out []models.Connection
	for _, id := range m.order {
		conn := m.conns[id]
		if conn.Status != models.ConnectionStatusPending {
			continue
		}
		if (side == "requester" && conn.Requester == user) || (side == "recipient" && conn.Recipient == user) {
			out = append(out, *conn)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RequestedAt.After(out[j].RequestedAt) })
	return out, nil
}

func (m *memConnStore) AcceptedInvolving(_ context.Context, user primitive.ObjectID) ([]models.Connection, error) {
	var out []models.Connection
	for _, id := range m.order {
		conn := m.conns[id]
		if conn.Status == models.ConnectionStatusAccepted && (conn.Requester == user || conn.Recipient == user) {
			out = append(out, *conn)
		}
	}
	return out, nil
}

func (m *memConnStore) Involving(_ context.Context, user primitive.ObjectID) ([]models.Connection, error) {
	var out []models.Connection
	for _, id := range m.order {
		conn := m.conns[id]
		if conn.Requester == user || conn.Recipient == user {
			out = append(out, *conn)
		}
	}
	return out, nil
}

type memUsers struct {
	users map[primitive.ObjectID]models.UserRef
	order []primitive.ObjectID
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[primitive.ObjectID]models.UserRef{}}
}

func (m *memUsers) add(name, email string) primitive.ObjectID {
	id := primitive.NewObjectID()
	m.users[id] = models.UserRef{Id: id, Name: name, Email: email}
	m.order = append(m.order, id)
	return id
}

func (m *memUsers) Summary(_ context.Context, id primitive.ObjectID) (*models.UserRef, error) {
	ref, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &ref, nil
}

func (m *memUsers) FindExcluding(_ context.Context, exclude []primitive.ObjectID, limit int64) ([]models.User, error) {
	excluded := map[primitive.ObjectID]bool{}
	for _, id := range exclude {
		excluded[id] = true
	}
	var out []models.User
	for _, id := range m.order {
		if excluded[id] {
			continue
		}
		ref := m.users[id]
		out = append(out, models.User{Id: id, Name: ref.Name, Email: ref.Email})
		if int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

type noProfiles struct{}

func (noProfiles) ByUser(context.Context, primitive.ObjectID) (*models.Profile, error) {
	return nil, nil
}

type dropEmitter struct{}

func (dropEmitter) Emit(context.Context, models.Notification) {}

type connTestEnv struct {
	app   *fiber.App
	users *memUsers
	conns *memConnStore
}

// newConnTestEnv wires the connection routes with in-memory storage. The
// auth middleware is replaced by one trusting the X-Test-User header.
func newConnTestEnv() *connTestEnv {
	users := newMemUsers()
	conns := newMemConnStore()
	enrich := services.NewEnricher(users, noProfiles{})
	registry := services.NewRegistry(conns, users, enrich, dropEmitter{}, zap.NewNop())
	suggestions := services.NewSuggestionEngine(conns, users, enrich)
	ctrl := controllers.NewConnectionController(registry, suggestions, zap.NewNop())

	app := fiber.New()
	protect := func(c *fiber.Ctx) error {
		id, err := primitive.ObjectIDFromHex(c.Get("X-Test-User"))
		if err != nil {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		ref, ok := users.users[id]
		if !ok {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		c.Locals("user", models.User{Id: id, Name: ref.Name, Email: ref.Email})
		return c.Next()
	}
	routes.ConnectionRoutes(app, ctrl, protect)

	return &connTestEnv{app: app, users: users, conns: conns}
}

func (env *connTestEnv) request(t *testing.T, method, path string, as primitive.ObjectID, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("X-Test-User", as.Hex())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, payload
}

func message(t *testing.T, payload []byte) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(payload, &body))
	return body.Message
}

func TestSendRequestEndpoint(t *testing.T) {
	env := newConnTestEnv()
	ada := env.users.add("Ada", "ada@example.com")
	bob := env.users.add("Bob", "bob@example.com")

	resp, payload := env.request(t, http.MethodPost, "/api/connections/request", ada,
		fiber.Map{"recipientId": bob.Hex()})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var conn models.ConnectionWithUsers
	require.NoError(t, json.Unmarshal(payload, &conn))
	assert.Equal(t, models.ConnectionStatusPending, conn.Status)
	assert.Equal(t, "Ada", conn.Requester.Name)
	assert.Equal(t, "Bob", conn.Recipient.Name)
}

func TestSendRequestEndpointBadRecipientID(t *testing.T) {
	env := newConnTestEnv()
	ada := env.users.add("Ada", "ada@example.com")

	resp, payload := env.request(t, http.MethodPost, "/api/connections/request", ada,
		fiber.Map{"recipientId": "not-an-id"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid user ID format", message(t, payload))
}

func TestSendRequestEndpointDuplicate(t *testing.T) {
	env := newConnTestEnv()
	ada := env.users.add("Ada", "ada@example.com")
	bob := env.users.add("Bob", "bob@example.com")

	resp, _ := env.request(t, http.MethodPost, "/api/connections/request", ada,
		fiber.Map{"recipientId": bob.Hex()})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, payload := env.request(t, http.MethodPost, "/api/connections/request", bob,
		fiber.Map{"recipientId": ada.Hex()})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Connection request already exists", message(t, payload))
}

func TestAcceptEndpoint(t *testing.T) {
	env := newConnTestEnv()
	ada := env.users.add("Ada", "ada@example.com")
	bob := env.users.add("Bob", "bob@example.com")

	_, payload := env.request(t, http.MethodPost, "/api/connections/request", ada,
		fiber.Map{"recipientId": bob.Hex()})
	var sent models.ConnectionWithUsers
	require.NoError(t, json.Unmarshal(payload, &sent))

	resp, payload := env.request(t, http.MethodPut,
		fmt.Sprintf("/api/connections/%s/accept", sent.Id.Hex()), bob, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var accepted models.ConnectionWithUsers
	require.NoError(t, json.Unmarshal(payload, &accepted))
	assert.Equal(t, models.ConnectionStatusAccepted, accepted.Status)
	assert.NotNil(t, accepted.RespondedAt)
}

func TestAcceptEndpointWrongUser(t *testing.T) {
	env := newConnTestEnv()
	ada := env.users.add("Ada", "ada@example.com")
	bob := env.users.add("Bob", "bob@example.com")

	_, payload := env.request(t, http.MethodPost, "/api/connections/request", ada,
		fiber.Map{"recipientId": bob.Hex()})
	var sent models.ConnectionWithUsers
	require.NoError(t, json.Unmarshal(payload, &sent))

	resp, payload := env.request(t, http.MethodPut,
		fmt.Sprintf("/api/connections/%s/accept", sent.Id.Hex()), ada, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Not authorized", message(t, payload))
}

func TestRejectEndpoint(t *testing.T) {
	env := newConnTestEnv()
	ada := env.users.add("Ada", "ada@example.com")
	bob := env.users.add("Bob", "bob@example.com")

	_, payload := env.request(t, http.MethodPost, "/api/connections/request", ada,
		fiber.Map{"recipientId": bob.Hex()})
	var sent models.ConnectionWithUsers
	require.NoError(t, json.Unmarshal(payload, &sent))

	resp, payload := env.request(t, http.MethodPut,
		fmt.Sprintf("/api/connections/%s/reject", sent.Id.Hex()), bob, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Connection request rejected", message(t, payload))
}

func TestListConnectionsEndpoint(t *testing.T) {
	env := newConnTestEnv()
	ada := env.users.add("Ada", "ada@example.com")
	bob := env.users.add("Bob", "bob@example.com")

	_, payload := env.request(t, http.MethodPost, "/api/connections/request", ada,
		fiber.Map{"recipientId": bob.Hex()})
	var sent models.ConnectionWithUsers
	require.NoError(t, json.Unmarshal(payload, &sent))
	env.request(t, http.MethodPut, fmt.Sprintf("/api/connections/%s/accept", sent.Id.Hex()), bob, nil)

	resp, payload := env.request(t, http.MethodGet, "/api/connections", ada, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var entries []models.ConnectionEntry
	require.NoError(t, json.Unmarshal(payload, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, bob, entries[0].User.Id)
}

func TestSuggestionsEndpointExcludesConnections(t *testing.T) {
	env := newConnTestEnv()
	ada := env.users.add("Ada", "ada@example.com")
	bob := env.users.add("Bob", "bob@example.com")
	eve := env.users.add("Eve", "eve@example.com")

	env.request(t, http.MethodPost, "/api/connections/request", ada,
		fiber.Map{"recipientId": bob.Hex()})

	resp, payload := env.request(t, http.MethodGet, "/api/connections/suggestions", ada, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var suggestions []models.EnrichedUser
	require.NoError(t, json.Unmarshal(payload, &suggestions))
	require.Len(t, suggestions, 1)
	assert.Equal(t, eve, suggestions[0].Id)
}

func TestStatusEndpoint(t *testing.T) {
	env := newConnTestEnv()
	ada := env.users.add("Ada", "ada@example.com")
	bob := env.users.add("Bob", "bob@example.com")

	resp, payload := env.request(t, http.MethodGet,
		fmt.Sprintf("/api/connections/status/%s", bob.Hex()), ada, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var info models.ConnectionStatusInfo
	require.NoError(t, json.Unmarshal(payload, &info))
	assert.Equal(t, "none", info.Status)
}

func TestRemoveEndpoint(t *testing.T) {
	env := newConnTestEnv()
	ada := env.users.add("Ada", "ada@example.com")
	bob := env.users.add("Bob", "bob@example.com")

	_, payload := env.request(t, http.MethodPost, "/api/connections/request", ada,
		fiber.Map{"recipientId": bob.Hex()})
	var sent models.ConnectionWithUsers
	require.NoError(t, json.Unmarshal(payload, &sent))

	resp, payload := env.request(t, http.MethodDelete,
		fmt.Sprintf("/api/connections/%s", sent.Id.Hex()), ada, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Connection removed", message(t, payload))
}
