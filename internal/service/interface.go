package service

import (
	"context"

	"github.com/kumarpraveer143/easyrent-sub000/internal/domain"
	"github.com/kumarpraveer143/easyrent-sub000/internal/hub"
)

// RealtimeService reacts to WebSocket events and exposes the
// out-of-band delivery primitive used by REST-triggered pushes.
type RealtimeService interface {
	HandleRegister(ctx context.Context, client *hub.Client, userID string) error
	HandleJoinChat(ctx context.Context, client *hub.Client, relationID string) error
	HandleSendMessage(ctx context.Context, client *hub.Client, relationID, senderID, body string) error
	HandleDisconnect(ctx context.Context, client *hub.Client) error

	// DeliverToUser pushes an event to the user's live connection if one
	// is registered. Fire-and-forget: false means the user is offline
	// and the event is dropped (durable state lives in the stores).
	DeliverToUser(userID string, event interface{}) bool
}

// Deliverer is the narrow delivery dependency of the notification
// service. RealtimeService satisfies it.
type Deliverer interface {
	DeliverToUser(userID string, event interface{}) bool
}

// NotificationService persists notifications and attempts best-effort
// realtime delivery.
type NotificationService interface {
	// Notify writes the notification, then pushes it to the recipient's
	// live connection if any. The returned bool reports whether the
	// realtime push happened; persistence succeeded either way.
	Notify(ctx context.Context, userID string, typ domain.NotificationType, message, roomID, roomNumber string) (*domain.Notification, bool, error)

	ListRecent(ctx context.Context, userID string) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id string) (*domain.Notification, error)
	MarkAllRead(ctx context.Context, userID string) error
}

// HistoryInvalidator drops cached history for a relation after its
// contents or read-state change. The history service owns the cache
// and its consistency bookkeeping, so all invalidation goes through it.
type HistoryInvalidator interface {
	InvalidateHistory(ctx context.Context, relationID string) error
}

// ChatHistoryService serves conversation history and read-state for the
// REST surface.
type ChatHistoryService interface {
	HistoryInvalidator

	History(ctx context.Context, relationID string) ([]domain.ChatMessage, error)
	Unread(ctx context.Context, relationID, viewerID string) (int64, error)
	MarkRead(ctx context.Context, relationID, viewerID string) error
}
