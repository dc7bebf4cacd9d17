package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kumarpraveer143/easyrent-sub000/internal/domain"
)

// gormMessageStore implements MessageStore on a GORM database.
type gormMessageStore struct {
	db *gorm.DB
}

// NewMessageStore creates a GORM-backed message store.
func NewMessageStore(db *gorm.DB) MessageStore {
	return &gormMessageStore{db: db}
}

func (s *gormMessageStore) Append(ctx context.Context, relationID, senderID, body string) (*domain.ChatMessage, error) {
	if body == "" {
		return nil, ErrEmptyBody
	}

	msg := &domain.ChatMessage{
		ID:         uuid.NewString(),
		RelationID: relationID,
		SenderID:   senderID,
		Body:       body,
		Read:       false,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.db.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, fmt.Errorf("failed to append message: %w", err)
	}
	return msg, nil
}

func (s *gormMessageStore) ListByRelation(ctx context.Context, relationID string) ([]domain.ChatMessage, error) {
	var msgs []domain.ChatMessage
	err := s.db.WithContext(ctx).
		Where("relation_id = ?", relationID).
		Order("created_at ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return msgs, nil
}

func (s *gormMessageStore) CountUnread(ctx context.Context, relationID, viewerID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&domain.ChatMessage{}).
		Where("relation_id = ? AND sender_id <> ? AND is_read = ?", relationID, viewerID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return count, nil
}

func (s *gormMessageStore) MarkRead(ctx context.Context, relationID, viewerID string) error {
	err := s.db.WithContext(ctx).
		Model(&domain.ChatMessage{}).
		Where("relation_id = ? AND sender_id <> ? AND is_read = ?", relationID, viewerID, false).
		Update("is_read", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark messages read: %w", err)
	}
	return nil
}
