package service

import (
	"context"

	"github.com/kumarpraveer143/easyrent-sub000/internal/domain"
	"github.com/kumarpraveer143/easyrent-sub000/internal/hub"
	"github.com/kumarpraveer143/easyrent-sub000/internal/log"
	"github.com/kumarpraveer143/easyrent-sub000/internal/presence"
	"github.com/kumarpraveer143/easyrent-sub000/internal/store"
)

type realtimeService struct {
	hub      *hub.Hub
	presence *presence.Directory
	messages store.MessageStore
	history  HistoryInvalidator // optional
}

// NewRealtimeService wires the hub, presence directory and message
// store into the gateway's event logic. history may be nil.
func NewRealtimeService(h *hub.Hub, dir *presence.Directory, messages store.MessageStore, history HistoryInvalidator) RealtimeService {
	return &realtimeService{
		hub:      h,
		presence: dir,
		messages: messages,
		history:  history,
	}
}

func (s *realtimeService) HandleRegister(ctx context.Context, c *hub.Client, userID string) error {
	if userID == "" {
		return c.SendEvent(domain.NewErrorEvent(domain.ErrCodeBadRequest, "userId is required"))
	}

	c.UserID = userID
	s.presence.Register(userID, c.ID)

	l := log.Ctx(ctx)
	l.Debug().Str(log.FieldUserID, userID).Str(log.FieldConnID, c.ID).Msg("user registered")
	return nil
}

func (s *realtimeService) HandleJoinChat(ctx context.Context, c *hub.Client, relationID string) error {
	if relationID == "" {
		return c.SendEvent(domain.NewErrorEvent(domain.ErrCodeBadRequest, "relationId is required"))
	}

	s.hub.JoinRoom(c, relationID)
	return nil
}

func (s *realtimeService) HandleSendMessage(ctx context.Context, c *hub.Client, relationID, senderID, body string) error {
	if relationID == "" || senderID == "" || body == "" {
		return c.SendEvent(domain.NewErrorEvent(domain.ErrCodeBadRequest, "relationId, senderId and message are required"))
	}

	msg, err := s.messages.Append(ctx, relationID, senderID, body)
	if err != nil {
		// The message is not broadcast and the sender gets no wire-level
		// failure notice; the internal error channel is this log line.
		l := log.Ctx(ctx)
		l.Error().Err(err).
			Str(log.FieldRelationID, relationID).
			Str(log.FieldUserID, senderID).
			Msg("failed to persist chat message")
		return nil
	}

	if s.history != nil {
		if err := s.history.InvalidateHistory(ctx, relationID); err != nil {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Str(log.FieldRelationID, relationID).Msg("history cache invalidation failed")
		}
	}

	// Broadcast only after the append is durably acknowledged, so any
	// client that receives this event will also see the message in a
	// subsequent history fetch.
	return s.hub.BroadcastToRoom(relationID, domain.NewReceiveMessageEvent(msg))
}

func (s *realtimeService) HandleDisconnect(ctx context.Context, c *hub.Client) error {
	s.presence.RemoveByConnection(c.ID)
	return nil
}

func (s *realtimeService) DeliverToUser(userID string, event interface{}) bool {
	connID, ok := s.presence.Lookup(userID)
	if !ok {
		return false
	}
	return s.hub.SendToClient(connID, event)
}
