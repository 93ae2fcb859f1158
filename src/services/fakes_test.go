package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devlinkhq/devlink-backend/src/models"
)

type fakeConnStore struct {
	mu    sync.Mutex
	conns map[primitive.ObjectID]*models.Connection
	order []primitive.ObjectID

	failMarkResponded bool
}

func newFakeConnStore() *fakeConnStore {
	return &fakeConnStore{conns: map[primitive.ObjectID]*models.Connection{}}
}

func (f *fakeConnStore) Insert(_ context.Context, conn *models.Connection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if conn.Id.IsZero() {
		conn.Id = primitive.NewObjectID()
	}
	clone := *conn
	f.conns[conn.Id] = &clone
	f.order = append(f.order, conn.Id)
	return nil
}

func (f *fakeConnStore) ByID(_ context.Context, id primitive.ObjectID) (*models.Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	conn, ok := f.conns[id]
	if !ok {
		return nil, nil
	}
	clone := *conn
	return &clone, nil
}

func (f *fakeConnStore) Between(_ context.Context, a, b primitive.ObjectID) (*models.Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.order {
		conn := f.conns[id]
		if (conn.Requester == a && conn.Recipient == b) || (conn.Requester == b && conn.Recipient == a) {
			clone := *conn
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeConnStore) MarkResponded(_ context.Context, id primitive.ObjectID, status models.ConnectionStatus, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failMarkResponded {
		return false, nil
	}
	conn, ok := f.conns[id]
	if !ok || conn.Status != models.ConnectionStatusPending {
		return false, nil
	}
	conn.Status = status
	conn.RespondedAt = &at
	return true, nil
}

func (f *fakeConnStore) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.conns, id)
	for i, existing := range f.order {
		if existing == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeConnStore) PendingFor(_ context.Context, user primitive.ObjectID, side string) ([]models.Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Connection
	for _, id := range f.order {
		conn := f.conns[id]
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

func (f *fakeConnStore) AcceptedInvolving(_ context.Context, user primitive.ObjectID) ([]models.Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Connection
	for _, id := range f.order {
		conn := f.conns[id]
		if conn.Status != models.ConnectionStatusAccepted {
			continue
		}
		if conn.Requester == user || conn.Recipient == user {
			out = append(out, *conn)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RespondedAt != nil && out[j].RespondedAt != nil && out[i].RespondedAt.After(*out[j].RespondedAt)
	})
	return out, nil
}

func (f *fakeConnStore) Involving(_ context.Context, user primitive.ObjectID) ([]models.Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Connection
	for _, id := range f.order {
		conn := f.conns[id]
		if conn.Requester == user || conn.Recipient == user {
			out = append(out, *conn)
		}
	}
	return out, nil
}

type fakeUsers struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.UserRef
	order []primitive.ObjectID
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[primitive.ObjectID]models.UserRef{}}
}

func (f *fakeUsers) add(name, email string) primitive.ObjectID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := primitive.NewObjectID()
	f.users[id] = models.UserRef{Id: id, Name: name, Email: email}
	f.order = append(f.order, id)
	return id
}

func (f *fakeUsers) Summary(_ context.Context, id primitive.ObjectID) (*models.UserRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ref, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return &ref, nil
}

func (f *fakeUsers) FindExcluding(_ context.Context, exclude []primitive.ObjectID, limit int64) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	excluded := map[primitive.ObjectID]bool{}
	for _, id := range exclude {
		excluded[id] = true
	}

	var out []models.User
	for _, id := range f.order {
		if excluded[id] {
			continue
		}
		ref := f.users[id]
		out = append(out, models.User{Id: id, Name: ref.Name, Email: ref.Email})
		if int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[primitive.ObjectID]models.Profile
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{profiles: map[primitive.ObjectID]models.Profile{}}
}

func (f *fakeProfiles) set(user primitive.ObjectID, profile models.Profile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	profile.User = user
	f.profiles[user] = profile
}

func (f *fakeProfiles) ByUser(_ context.Context, user primitive.ObjectID) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	profile, ok := f.profiles[user]
	if !ok {
		return nil, nil
	}
	return &profile, nil
}

// fakeEmitter records emitted notifications without delivering them.
type fakeEmitter struct {
	mu      sync.Mutex
	emitted []models.Notification
}

func (f *fakeEmitter) Emit(_ context.Context, n models.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emitted = append(f.emitted, n)
}

func (f *fakeEmitter) all() []models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Notification{}, f.emitted...)
}

type fakeNotifStore struct {
	mu            sync.Mutex
	notifications map[primitive.ObjectID]*models.Notification
	order         []primitive.ObjectID
}

func newFakeNotifStore() *fakeNotifStore {
	return &fakeNotifStore{notifications: map[primitive.ObjectID]*models.Notification{}}
}

func (f *fakeNotifStore) insert(n models.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n.Id.IsZero() {
		n.Id = primitive.NewObjectID()
	}
	f.notifications[n.Id] = &n
	f.order = append(f.order, n.Id)
}

func (f *fakeNotifStore) ByRecipient(_ context.Context, recipient primitive.ObjectID, skip, limit int64) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Notification
	for _, id := range f.order {
		n := f.notifications[id]
		if n.Recipient == recipient {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if skip >= int64(len(out)) {
		return nil, nil
	}
	out = out[skip:]
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeNotifStore) CountUnread(_ context.Context, recipient primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, n := range f.notifications {
		if n.Recipient == recipient && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotifStore) MarkRead(_ context.Context, ids []primitive.ObjectID, recipient primitive.ObjectID, at time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var modified int64
	for _, id := range ids {
		n, ok := f.notifications[id]
		if ok && n.Recipient == recipient && !n.IsRead {
			n.IsRead = true
			readAt := at
			n.ReadAt = &readAt
			modified++
		}
	}
	return modified, nil
}

func (f *fakeNotifStore) MarkAllRead(_ context.Context, recipient primitive.ObjectID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.notifications {
		if n.Recipient == recipient && !n.IsRead {
			n.IsRead = true
			readAt := at
			n.ReadAt = &readAt
		}
	}
	return nil
}

func (f *fakeNotifStore) ByID(_ context.Context, id primitive.ObjectID) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notifications[id]
	if !ok {
		return nil, nil
	}
	clone := *n
	return &clone, nil
}

func (f *fakeNotifStore) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.notifications, id)
	for i, existing := range f.order {
		if existing == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeNotifStore) DeleteAllFor(_ context.Context, recipient primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	kept := f.order[:0]
	for _, id := range f.order {
		if f.notifications[id].Recipient == recipient {
			delete(f.notifications, id)
			deleted++
			continue
		}
		kept = append(kept, id)
	}
	f.order = kept
	return deleted, nil
}

// syncQueue delivers published notifications straight into the store.
type syncQueue struct {
	store *fakeNotifStore
}

func (q *syncQueue) Publish(n models.Notification) {
	q.store.insert(n)
}
