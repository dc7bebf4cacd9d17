package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kumarpraveer143/easyrent-sub000/internal/domain"
)

// recentNotificationLimit caps the inbox view. Older records are kept,
// just not returned by ListRecent.
const recentNotificationLimit = 50

// gormNotificationStore implements NotificationStore on a GORM database.
type gormNotificationStore struct {
	db *gorm.DB
}

// NewNotificationStore creates a GORM-backed notification store.
func NewNotificationStore(db *gorm.DB) NotificationStore {
	return &gormNotificationStore{db: db}
}

func (s *gormNotificationStore) Append(ctx context.Context, userID string, typ domain.NotificationType, message, roomID, roomNumber string) (*domain.Notification, error) {
	if !typ.Valid() {
		return nil, domain.ErrUnknownNotificationType
	}

	n := &domain.Notification{
		ID:         uuid.NewString(),
		UserID:     userID,
		Type:       typ,
		Message:    message,
		RoomID:     roomID,
		RoomNumber: roomNumber,
		Read:       false,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return nil, fmt.Errorf("failed to append notification: %w", err)
	}
	return n, nil
}

func (s *gormNotificationStore) ListRecent(ctx context.Context, userID string) ([]domain.Notification, error) {
	var ns []domain.Notification
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(recentNotificationLimit).
		Find(&ns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return ns, nil
}

func (s *gormNotificationStore) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (s *gormNotificationStore) MarkRead(ctx context.Context, id string) (*domain.Notification, error) {
	var n domain.Notification
	err := s.db.WithContext(ctx).First(&n, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load notification: %w", err)
	}

	if !n.Read {
		if err := s.db.WithContext(ctx).Model(&n).Update("is_read", true).Error; err != nil {
			return nil, fmt.Errorf("failed to mark notification read: %w", err)
		}
		n.Read = true
	}
	return &n, nil
}

func (s *gormNotificationStore) MarkAllRead(ctx context.Context, userID string) error {
	err := s.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark all notifications read: %w", err)
	}
	return nil
}
