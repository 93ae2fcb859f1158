package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/devlinkhq/devlink-backend/src/models"
)

// NotificationStore is the persistence contract for notification records.
// ByID returns (nil, nil) when no document matches.
type NotificationStore interface {
	ByRecipient(ctx context.Context, recipient primitive.ObjectID, skip, limit int64) ([]models.Notification, error)
	CountUnread(ctx context.Context, recipient primitive.ObjectID) (int64, error)
	MarkRead(ctx context.Context, ids []primitive.ObjectID, recipient primitive.ObjectID, at time.Time) (int64, error)
	MarkAllRead(ctx context.Context, recipient primitive.ObjectID, at time.Time) error
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteAllFor(ctx context.Context, recipient primitive.ObjectID) (int64, error)
}

// Publisher is the asynchronous delivery queue notifications are emitted
// through.
type Publisher interface {
	Publish(n models.Notification)
}

// Notifications creates and serves recipient-scoped notification records.
// Emission is best-effort: it goes through the publisher and can never
// fail the operation that triggered it.
type Notifications struct {
	store  NotificationStore
	queue  Publisher
	enrich *Enricher
	log    *zap.Logger
}

func NewNotifications(store NotificationStore, queue Publisher, enrich *Enricher, log *zap.Logger) *Notifications {
	return &Notifications{
		store:  store,
		queue:  queue,
		enrich: enrich,
		log:    log,
	}
}

// Emit hands a notification to the delivery queue. Self-notifications are
// suppressed, not stored. The caller gets no error under any circumstance.
func (n *Notifications) Emit(_ context.Context, notification models.Notification) {
	if notification.Recipient == notification.Sender {
		return
	}

	if notification.Id.IsZero() {
		notification.Id = primitive.NewObjectID()
	}
	notification.IsRead = false
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}

	n.queue.Publish(notification)
}

// List returns a page of the recipient's notifications, newest first, with
// sender summaries attached. A sender that no longer exists is returned as
// null rather than dropping the notification.
func (n *Notifications) List(ctx context.Context, recipient primitive.ObjectID, page, limit int64) ([]models.NotificationView, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	records, err := n.store.ByRecipient(ctx, recipient, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	views := make([]models.NotificationView, 0, len(records))
	for _, record := range records {
		view := models.NotificationView{
			Id:                record.Id,
			Recipient:         record.Recipient,
			Type:              record.Type,
			Message:           record.Message,
			RelatedPost:       record.RelatedPost,
			RelatedConnection: record.RelatedConnection,
			RelatedComment:    record.RelatedComment,
			IsRead:            record.IsRead,
			CreatedAt:         record.CreatedAt,
			ReadAt:            record.ReadAt,
		}

		sender, err := n.enrich.UserRef(ctx, record.Sender)
		if err != nil {
			return nil, err
		}
		if sender.Name != "" || sender.Email != "" {
			view.Sender = &sender
		}

		views = append(views, view)
	}
	return views, nil
}

// MarkRead flags the given notifications as read for their recipient. Ids
// not owned by the caller are silently ignored.
func (n *Notifications) MarkRead(ctx context.Context, ids []primitive.ObjectID, owner primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := n.store.MarkRead(ctx, ids, owner, time.Now())
	return err
}

func (n *Notifications) MarkAllRead(ctx context.Context, owner primitive.ObjectID) error {
	return n.store.MarkAllRead(ctx, owner, time.Now())
}

func (n *Notifications) UnreadCount(ctx context.Context, owner primitive.ObjectID) (int64, error) {
	return n.store.CountUnread(ctx, owner)
}

// Delete removes one notification; only its recipient may do so.
func (n *Notifications) Delete(ctx context.Context, id, owner primitive.ObjectID) error {
	record, err := n.store.ByID(ctx, id)
	if err != nil {
		return err
	}
	if record == nil {
		return NotFound("Notification not found")
	}
	if record.Recipient != owner {
		return Forbidden("User not authorized")
	}

	return n.store.Delete(ctx, id)
}

// DeleteAll removes every notification addressed to the owner.
func (n *Notifications) DeleteAll(ctx context.Context, owner primitive.ObjectID) error {
	_, err := n.store.DeleteAllFor(ctx, owner)
	return err
}
