package service

import (
	"context"

	"github.com/kumarpraveer143/easyrent-sub000/internal/domain"
	"github.com/kumarpraveer143/easyrent-sub000/internal/log"
	"github.com/kumarpraveer143/easyrent-sub000/internal/store"
)

type notificationService struct {
	store     store.NotificationStore
	deliverer Deliverer
}

// NewNotificationService wires the notification store to the realtime
// delivery primitive.
func NewNotificationService(s store.NotificationStore, d Deliverer) NotificationService {
	return &notificationService{store: s, deliverer: d}
}

func (s *notificationService) Notify(ctx context.Context, userID string, typ domain.NotificationType, message, roomID, roomNumber string) (*domain.Notification, bool, error) {
	n, err := s.store.Append(ctx, userID, typ, message, roomID, roomNumber)
	if err != nil {
		return nil, false, err
	}

	delivered := s.deliverer.DeliverToUser(userID, domain.NewNotificationEvent(n))
	if !delivered {
		// Expected when the user is offline; the record is durable and
		// will be seen on the next fetch.
		l := log.Ctx(ctx)
		l.Debug().Str(log.FieldUserID, userID).Str("notification_id", n.ID).Msg("recipient offline, realtime push skipped")
	}

	return n, delivered, nil
}

func (s *notificationService) ListRecent(ctx context.Context, userID string) ([]domain.Notification, error) {
	return s.store.ListRecent(ctx, userID)
}

func (s *notificationService) CountUnread(ctx context.Context, userID string) (int64, error) {
	return s.store.CountUnread(ctx, userID)
}

func (s *notificationService) MarkRead(ctx context.Context, id string) (*domain.Notification, error) {
	return s.store.MarkRead(ctx, id)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.store.MarkAllRead(ctx, userID)
}
