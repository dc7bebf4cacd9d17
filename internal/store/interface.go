package store

import (
	"context"
	"errors"

	"github.com/kumarpraveer143/easyrent-sub000/internal/domain"
)

var (
	ErrNotFound  = errors.New("store: not found")
	ErrEmptyBody = errors.New("store: message body is empty")
)

// MessageStore persists chat messages scoped by relation.
type MessageStore interface {
	// Append durably writes a message and returns it with generated id
	// and timestamp. The body must be non-empty.
	Append(ctx context.Context, relationID, senderID, body string) (*domain.ChatMessage, error)

	// ListByRelation returns all messages of a relation ascending by
	// creation time. Unpaginated: conversations are assumed small.
	ListByRelation(ctx context.Context, relationID string) ([]domain.ChatMessage, error)

	// CountUnread counts messages in the relation whose sender is not
	// viewerID and that are still unread.
	CountUnread(ctx context.Context, relationID, viewerID string) (int64, error)

	// MarkRead flags all messages in the relation not sent by viewerID
	// as read. Idempotent.
	MarkRead(ctx context.Context, relationID, viewerID string) error
}

// NotificationStore persists per-user notifications.
type NotificationStore interface {
	Append(ctx context.Context, userID string, typ domain.NotificationType, message, roomID, roomNumber string) (*domain.Notification, error)

	// ListRecent returns the most recent notifications for a user,
	// newest first, capped at 50.
	ListRecent(ctx context.Context, userID string) ([]domain.Notification, error)

	CountUnread(ctx context.Context, userID string) (int64, error)

	// MarkRead flags one notification as read and returns the updated
	// record, or ErrNotFound if the id does not exist.
	MarkRead(ctx context.Context, id string) (*domain.Notification, error)

	// MarkAllRead flags every unread notification of a user as read.
	// Idempotent.
	MarkAllRead(ctx context.Context, userID string) error
}
