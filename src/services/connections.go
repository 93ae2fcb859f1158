package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/devlinkhq/devlink-backend/src/models"
)

// ConnectionStore is the persistence contract of the registry. ByID and
// Between return (nil, nil) when no document matches.
type ConnectionStore interface {
	Insert(ctx context.Context, conn *models.Connection) error
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Connection, error)
	Between(ctx context.Context, a, b primitive.ObjectID) (*models.Connection, error)
	MarkResponded(ctx context.Context, id primitive.ObjectID, status models.ConnectionStatus, at time.Time) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	PendingFor(ctx context.Context, user primitive.ObjectID, side string) ([]models.Connection, error)
	AcceptedInvolving(ctx context.Context, user primitive.ObjectID) ([]models.Connection, error)
}

// Emitter hands a notification to the asynchronous delivery path. It never
// returns and never fails the caller.
type Emitter interface {
	Emit(ctx context.Context, n models.Notification)
}

// Direction selects which side of a pending connection the caller is on.
type Direction string

const (
	DirectionSent     Direction = "sent"
	DirectionReceived Direction = "received"
)

// Registry owns the connection state machine: a pending request between
// two users becomes accepted or rejected exactly once, only by the
// recipient, and can be removed by either party afterwards.
type Registry struct {
	connections ConnectionStore
	users       UserDirectory
	enrich      *Enricher
	notify      Emitter
	log         *zap.Logger
}

func NewRegistry(connections ConnectionStore, users UserDirectory, enrich *Enricher, notify Emitter, log *zap.Logger) *Registry {
	return &Registry{
		connections: connections,
		users:       users,
		enrich:      enrich,
		notify:      notify,
		log:         log,
	}
}

// SendRequest creates a pending connection from requester to recipient.
// The duplicate check covers both directions; the unique index on the
// ordered pair is only a backstop against exact-direction races.
func (r *Registry) SendRequest(ctx context.Context, requester, recipient primitive.ObjectID) (*models.ConnectionWithUsers, error) {
	if requester == recipient {
		return nil, InvalidOperation("Cannot send connection request to yourself")
	}

	target, err := r.users.Summary(ctx, recipient)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, NotFound("User not found")
	}

	existing, err := r.connections.Between(ctx, requester, recipient)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, Conflict("Connection request already exists")
	}

	conn := &models.Connection{
		Id:          primitive.NewObjectID(),
		Requester:   requester,
		Recipient:   recipient,
		Status:      models.ConnectionStatusPending,
		RequestedAt: time.Now(),
	}
	if err := r.connections.Insert(ctx, conn); err != nil {
		return nil, err
	}

	sender, err := r.users.Summary(ctx, requester)
	if err != nil {
		r.log.Warn("could not resolve requester for notification", zap.Error(err))
	}
	senderName := ""
	if sender != nil {
		senderName = sender.Name
	}

	r.notify.Emit(ctx, models.Notification{
		Recipient:         recipient,
		Sender:            requester,
		Type:              models.NotificationTypeConnectionRequest,
		Message:           fmt.Sprintf("%s sent you a connection request", senderName),
		RelatedConnection: &conn.Id,
	})

	return r.populate(ctx, conn)
}

// Accept transitions a pending request to accepted. Only the recipient may
// accept, and only while the request is still pending. The transition is a
// conditional single-document update, so concurrent accepts cannot both
// succeed.
func (r *Registry) Accept(ctx context.Context, id, actor primitive.ObjectID) (*models.ConnectionWithUsers, error) {
	conn, err := r.loadPendingFor(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ok, err := r.connections.MarkResponded(ctx, id, models.ConnectionStatusAccepted, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, InvalidOperation("Connection request already processed")
	}

	conn.Status = models.ConnectionStatusAccepted
	conn.RespondedAt = &now

	acceptor, err := r.users.Summary(ctx, actor)
	if err != nil {
		r.log.Warn("could not resolve acceptor for notification", zap.Error(err))
	}
	acceptorName := ""
	if acceptor != nil {
		acceptorName = acceptor.Name
	}

	r.notify.Emit(ctx, models.Notification{
		Recipient:         conn.Requester,
		Sender:            actor,
		Type:              models.NotificationTypeConnectionAccepted,
		Message:           fmt.Sprintf("%s accepted your connection request", acceptorName),
		RelatedConnection: &conn.Id,
	})

	return r.populate(ctx, conn)
}

// Reject transitions a pending request to rejected. Same guards as Accept;
// no notification is emitted.
func (r *Registry) Reject(ctx context.Context, id, actor primitive.ObjectID) error {
	if _, err := r.loadPendingFor(ctx, id, actor); err != nil {
		return err
	}

	ok, err := r.connections.MarkResponded(ctx, id, models.ConnectionStatusRejected, time.Now())
	if err != nil {
		return err
	}
	if !ok {
		return InvalidOperation("Connection request already processed")
	}
	return nil
}

// Remove deletes a connection in any status. Either party may remove it;
// nothing of the relationship is retained.
func (r *Registry) Remove(ctx context.Context, id, actor primitive.ObjectID) error {
	conn, err := r.connections.ByID(ctx, id)
	if err != nil {
		return err
	}
	if conn == nil {
		return NotFound("Connection not found")
	}
	if conn.Requester != actor && conn.Recipient != actor {
		return Forbidden("Not authorized")
	}

	return r.connections.Delete(ctx, id)
}

// ListAccepted returns the user's accepted connections, each entry showing
// the other party enriched with public profile fields, most recently
// accepted first.
func (r *Registry) ListAccepted(ctx context.Context, user primitive.ObjectID) ([]models.ConnectionEntry, error) {
	conns, err := r.connections.AcceptedInvolving(ctx, user)
	if err != nil {
		return nil, err
	}

	entries := make([]models.ConnectionEntry, 0, len(conns))
	for _, conn := range conns {
		other := conn.Requester
		if other == user {
			other = conn.Recipient
		}

		enriched, err := r.enrich.EnrichedUser(ctx, other)
		if err != nil {
			return nil, err
		}

		entries = append(entries, models.ConnectionEntry{
			Id:           conn.Id,
			User:         enriched,
			ConnectedAt:  conn.RespondedAt,
			ConnectionId: conn.Id,
		})
	}
	return entries, nil
}

// ListPending returns the user's pending requests on the given side,
// newest first, with both parties' summaries populated.
func (r *Registry) ListPending(ctx context.Context, user primitive.ObjectID, direction Direction) ([]models.ConnectionWithUsers, error) {
	var side string
	switch direction {
	case DirectionSent:
		side = "requester"
	case DirectionReceived:
		side = "recipient"
	default:
		return nil, InvalidOperation("Invalid direction")
	}

	conns, err := r.connections.PendingFor(ctx, user, side)
	if err != nil {
		return nil, err
	}

	out := make([]models.ConnectionWithUsers, 0, len(conns))
	for i := range conns {
		populated, err := r.populate(ctx, &conns[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *populated)
	}
	return out, nil
}

// Status reports the relationship between the user and another user:
// none, connected, sent or received (with the pending request id). A
// rejected connection reads as none.
func (r *Registry) Status(ctx context.Context, user, other primitive.ObjectID) (*models.ConnectionStatusInfo, error) {
	if user == other {
		return nil, InvalidOperation("Cannot check connection status with yourself")
	}

	conn, err := r.connections.Between(ctx, user, other)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return &models.ConnectionStatusInfo{Status: "none"}, nil
	}

	switch conn.Status {
	case models.ConnectionStatusAccepted:
		return &models.ConnectionStatusInfo{Status: "connected"}, nil
	case models.ConnectionStatusPending:
		if conn.Requester == user {
			return &models.ConnectionStatusInfo{Status: "sent"}, nil
		}
		return &models.ConnectionStatusInfo{Status: "received", RequestId: &conn.Id}, nil
	default:
		return &models.ConnectionStatusInfo{Status: "none"}, nil
	}
}

// loadPendingFor fetches a connection and checks the accept/reject guards:
// the record must exist, the actor must be its recipient, and it must
// still be pending.
func (r *Registry) loadPendingFor(ctx context.Context, id, actor primitive.ObjectID) (*models.Connection, error) {
	conn, err := r.connections.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return nil, NotFound("Connection request not found")
	}
	if conn.Recipient != actor {
		return nil, Forbidden("Not authorized")
	}
	if conn.Status != models.ConnectionStatusPending {
		return nil, InvalidOperation("Connection request already processed")
	}
	return conn, nil
}

func (r *Registry) populate(ctx context.Context, conn *models.Connection) (*models.ConnectionWithUsers, error) {
	requester, err := r.enrich.UserRef(ctx, conn.Requester)
	if err != nil {
		return nil, err
	}
	recipient, err := r.enrich.UserRef(ctx, conn.Recipient)
	if err != nil {
		return nil, err
	}

	return &models.ConnectionWithUsers{
		Id:          conn.Id,
		Requester:   requester,
		Recipient:   recipient,
		Status:      conn.Status,
		RequestedAt: conn.RequestedAt,
		RespondedAt: conn.RespondedAt,
	}, nil
}
