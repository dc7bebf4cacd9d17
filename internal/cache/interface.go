package cache

import (
	"context"
	"errors"
	"time"

	"github.com/kumarpraveer143/easyrent-sub000/internal/domain"
)

var ErrCacheMiss = errors.New("cache miss")

// HistoryCache caches whole-conversation history per relation. Entries
// are invalidated on append and on read-state changes, so a hit is
// always consistent with the store.
type HistoryCache interface {
	Get(ctx context.Context, relationID string) ([]domain.ChatMessage, error)
	Set(ctx context.Context, relationID string, messages []domain.ChatMessage, ttl time.Duration) error
	Invalidate(ctx context.Context, relationID string) error
	Close() error
}
