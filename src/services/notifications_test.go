package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/devlinkhq/devlink-backend/src/models"
)

type notificationsFixture struct {
	svc   *Notifications
	store *fakeNotifStore
	users *fakeUsers
}

func newNotificationsFixture() *notificationsFixture {
	store := newFakeNotifStore()
	users := newFakeUsers()
	profiles := newFakeProfiles()
	enrich := NewEnricher(users, profiles)

	return &notificationsFixture{
		svc:   NewNotifications(store, &syncQueue{store: store}, enrich, zap.NewNop()),
		store: store,
		users: users,
	}
}

func TestEmitSuppressesSelfNotification(t *testing.T) {
	fx := newNotificationsFixture()
	ada := fx.users.add("Ada", "ada@example.com")

	fx.svc.Emit(context.Background(), models.Notification{
		Recipient: ada,
		Sender:    ada,
		Type:      models.NotificationTypePostLike,
		Message:   "Ada liked your post",
	})

	count, err := fx.svc.UnreadCount(context.Background(), ada)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestEmitStoresUnreadWithTimestamp(t *testing.T) {
	fx := newNotificationsFixture()
	ada := fx.users.add("Ada", "ada@example.com")
	bob := fx.users.add("Bob", "bob@example.com")

	fx.svc.Emit(context.Background(), models.Notification{
		Recipient: ada,
		Sender:    bob,
		Type:      models.NotificationTypeConnectionRequest,
		Message:   "Bob sent you a connection request",
	})

	views, err := fx.svc.List(context.Background(), ada, 1, 20)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.False(t, views[0].IsRead)
	assert.False(t, views[0].CreatedAt.IsZero())
	assert.False(t, views[0].Id.IsZero())
	require.NotNil(t, views[0].Sender)
	assert.Equal(t, "Bob", views[0].Sender.Name)
}

func TestListSenderNullWhenUserGone(t *testing.T) {
	fx := newNotificationsFixture()
	ada := fx.users.add("Ada", "ada@example.com")

	fx.store.insert(models.Notification{
		Recipient: ada,
		Sender:    primitive.NewObjectID(),
		Type:      models.NotificationTypePostComment,
		Message:   "someone commented on your post",
		CreatedAt: time.Now(),
	})

	views, err := fx.svc.List(context.Background(), ada, 1, 20)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Nil(t, views[0].Sender)
	assert.Equal(t, "someone commented on your post", views[0].Message)
}

func TestListPaginatesNewestFirst(t *testing.T) {
	fx := newNotificationsFixture()
	ada := fx.users.add("Ada", "ada@example.com")
	bob := fx.users.add("Bob", "bob@example.com")

	base := time.Now()
	for i := 0; i < 5; i++ {
		fx.store.insert(models.Notification{
			Recipient: ada,
			Sender:    bob,
			Type:      models.NotificationTypePostLike,
			Message:   "Bob liked your post",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	page1, err := fx.svc.List(context.Background(), ada, 1, 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.True(t, page1[0].CreatedAt.After(page1[1].CreatedAt))

	page3, err := fx.svc.List(context.Background(), ada, 3, 2)
	require.NoError(t, err)
	assert.Len(t, page3, 1)
}

func TestMarkReadIgnoresForeignIds(t *testing.T) {
	fx := newNotificationsFixture()
	ada := fx.users.add("Ada", "ada@example.com")
	bob := fx.users.add("Bob", "bob@example.com")

	mine := primitive.NewObjectID()
	theirs := primitive.NewObjectID()
	fx.store.insert(models.Notification{Id: mine, Recipient: ada, Sender: bob, CreatedAt: time.Now()})
	fx.store.insert(models.Notification{Id: theirs, Recipient: bob, Sender: ada, CreatedAt: time.Now()})

	require.NoError(t, fx.svc.MarkRead(context.Background(), []primitive.ObjectID{mine, theirs}, ada))

	adaUnread, err := fx.svc.UnreadCount(context.Background(), ada)
	require.NoError(t, err)
	assert.Zero(t, adaUnread)

	bobUnread, err := fx.svc.UnreadCount(context.Background(), bob)
	require.NoError(t, err)
	assert.Equal(t, int64(1), bobUnread)
}

func TestMarkReadEmptyIsNoOp(t *testing.T) {
	fx := newNotificationsFixture()
	ada := fx.users.add("Ada", "ada@example.com")

	assert.NoError(t, fx.svc.MarkRead(context.Background(), nil, ada))
}

func TestMarkAllRead(t *testing.T) {
	fx := newNotificationsFixture()
	ada := fx.users.add("Ada", "ada@example.com")
	bob := fx.users.add("Bob", "bob@example.com")

	for i := 0; i < 3; i++ {
		fx.store.insert(models.Notification{Recipient: ada, Sender: bob, CreatedAt: time.Now()})
	}

	require.NoError(t, fx.svc.MarkAllRead(context.Background(), ada))

	count, err := fx.svc.UnreadCount(context.Background(), ada)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDeleteRequiresOwnership(t *testing.T) {
	fx := newNotificationsFixture()
	ada := fx.users.add("Ada", "ada@example.com")
	bob := fx.users.add("Bob", "bob@example.com")

	id := primitive.NewObjectID()
	fx.store.insert(models.Notification{Id: id, Recipient: ada, Sender: bob, CreatedAt: time.Now()})

	err := fx.svc.Delete(context.Background(), id, bob)
	assert.Equal(t, KindForbidden, KindOf(err))

	require.NoError(t, fx.svc.Delete(context.Background(), id, ada))

	err = fx.svc.Delete(context.Background(), id, ada)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestDeleteAllScopedToOwner(t *testing.T) {
	fx := newNotificationsFixture()
	ada := fx.users.add("Ada", "ada@example.com")
	bob := fx.users.add("Bob", "bob@example.com")

	fx.store.insert(models.Notification{Recipient: ada, Sender: bob, CreatedAt: time.Now()})
	fx.store.insert(models.Notification{Recipient: bob, Sender: ada, CreatedAt: time.Now()})

	require.NoError(t, fx.svc.DeleteAll(context.Background(), ada))

	adaViews, err := fx.svc.List(context.Background(), ada, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, adaViews)

	bobViews, err := fx.svc.List(context.Background(), bob, 1, 20)
	require.NoError(t, err)
	assert.Len(t, bobViews, 1)
}
