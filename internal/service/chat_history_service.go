package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/kumarpraveer143/easyrent-sub000/internal/cache"
	"github.com/kumarpraveer143/easyrent-sub000/internal/domain"
	"github.com/kumarpraveer143/easyrent-sub000/internal/log"
	"github.com/kumarpraveer143/easyrent-sub000/internal/store"
)

type chatHistoryService struct {
	messages store.MessageStore
	cache    cache.HistoryCache // optional
	cacheTTL time.Duration
	sf       singleflight.Group

	// mu orders cache writes against invalidation. gens counts
	// invalidations per relation; a fetch only caches its snapshot if no
	// invalidation landed since before its store read.
	mu   sync.Mutex
	gens map[string]uint64
}

// NewChatHistoryService serves conversation history, with an optional
// cache in front of the message store. historyCache may be nil.
func NewChatHistoryService(messages store.MessageStore, historyCache cache.HistoryCache, cacheTTL time.Duration) ChatHistoryService {
	return &chatHistoryService{
		messages: messages,
		cache:    historyCache,
		cacheTTL: cacheTTL,
		gens:     make(map[string]uint64),
	}
}

func (s *chatHistoryService) History(ctx context.Context, relationID string) ([]domain.ChatMessage, error) {
	if s.cache == nil {
		return s.messages.ListByRelation(ctx, relationID)
	}

	// Singleflight collapses concurrent fetches of the same relation.
	result, err, _ := s.sf.Do(relationID, func() (interface{}, error) {
		return s.fetchWithCache(ctx, relationID)
	})
	if err != nil {
		return nil, err
	}

	msgs, ok := result.([]domain.ChatMessage)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from singleflight")
	}
	return msgs, nil
}

func (s *chatHistoryService) fetchWithCache(ctx context.Context, relationID string) ([]domain.ChatMessage, error) {
	cached, err := s.cache.Get(ctx, relationID)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Str(log.FieldRelationID, relationID).Msg("history cache get error")
	}

	s.mu.Lock()
	gen := s.gens[relationID]
	s.mu.Unlock()

	msgs, err := s.messages.ListByRelation(ctx, relationID)
	if err != nil {
		return nil, err
	}

	// Only cache the snapshot if the relation was not invalidated while
	// the store read was in flight; writing it anyway would resurrect
	// stale history for the full TTL.
	s.mu.Lock()
	if s.gens[relationID] == gen {
		if err := s.cache.Set(ctx, relationID, msgs, s.cacheTTL); err != nil {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Str(log.FieldRelationID, relationID).Msg("history cache set error")
		}
	}
	s.mu.Unlock()

	return msgs, nil
}

// InvalidateHistory drops the cached history of a relation. Callers
// invoke it after every write that changes what a history fetch should
// return.
func (s *chatHistoryService) InvalidateHistory(ctx context.Context, relationID string) error {
	if s.cache == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.gens[relationID]++
	return s.cache.Invalidate(ctx, relationID)
}

func (s *chatHistoryService) Unread(ctx context.Context, relationID, viewerID string) (int64, error) {
	return s.messages.CountUnread(ctx, relationID, viewerID)
}

func (s *chatHistoryService) MarkRead(ctx context.Context, relationID, viewerID string) error {
	if err := s.messages.MarkRead(ctx, relationID, viewerID); err != nil {
		return err
	}

	// Cached history now carries stale read flags.
	if err := s.InvalidateHistory(ctx, relationID); err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Str(log.FieldRelationID, relationID).Msg("history cache invalidation failed")
	}
	return nil
}
