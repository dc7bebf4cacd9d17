package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/kumarpraveer143/easyrent-sub000/internal/config"
	"github.com/kumarpraveer143/easyrent-sub000/internal/domain"
	"github.com/kumarpraveer143/easyrent-sub000/internal/hub"
	"github.com/kumarpraveer143/easyrent-sub000/internal/log"
	"github.com/kumarpraveer143/easyrent-sub000/internal/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler accepts WebSocket connections and dispatches the wire
// events to the realtime service.
type WSHandler struct {
	hub     *hub.Hub
	service service.RealtimeService
	wsCfg   config.WebSocketConfig
}

func NewWSHandler(h *hub.Hub, svc service.RealtimeService, wsCfg config.WebSocketConfig) *WSHandler {
	return &WSHandler{
		hub:     h,
		service: svc,
		wsCfg:   wsCfg,
	}
}

func (h *WSHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		l := log.L()
		l.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := hub.NewClient(uuid.NewString(), h.hub, conn, h.wsCfg)

	h.hub.Register(client)

	go client.WritePump()
	go func() {
		client.ReadPump(h.handleEvent)
		// ReadPump only returns once the connection dropped.
		h.service.HandleDisconnect(context.Background(), client)
	}()
}

func (h *WSHandler) handleEvent(client *hub.Client, message []byte) {
	var base domain.BaseEvent
	if err := json.Unmarshal(message, &base); err != nil {
		client.SendEvent(domain.NewErrorEvent(domain.ErrCodeBadRequest, "invalid event format"))
		return
	}

	ctx := h.eventContext(client, base.Type)

	switch base.Type {
	case domain.EventRegister:
		var evt domain.RegisterEvent
		if err := json.Unmarshal(message, &evt); err != nil {
			client.SendEvent(domain.NewErrorEvent(domain.ErrCodeBadRequest, "invalid register event"))
			return
		}
		if err := h.service.HandleRegister(ctx, client, evt.UserID); err != nil {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Msg("register failed")
		}

	case domain.EventJoinChat:
		var evt domain.JoinChatEvent
		if err := json.Unmarshal(message, &evt); err != nil {
			client.SendEvent(domain.NewErrorEvent(domain.ErrCodeBadRequest, "invalid join_chat event"))
			return
		}
		if err := h.service.HandleJoinChat(ctx, client, evt.RelationID); err != nil {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Msg("join_chat failed")
		}

	case domain.EventSendMessage:
		var evt domain.SendMessageEvent
		if err := json.Unmarshal(message, &evt); err != nil {
			client.SendEvent(domain.NewErrorEvent(domain.ErrCodeBadRequest, "invalid send_message event"))
			return
		}
		if err := h.service.HandleSendMessage(ctx, client, evt.RelationID, evt.SenderID, evt.Message); err != nil {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Msg("send_message failed")
		}

	default:
		client.SendEvent(domain.NewErrorEvent(domain.ErrCodeBadRequest, "unknown event type"))
	}
}

// eventContext carries a connection-scoped child logger, so service log
// lines are attributable to the connection the same way the gin
// middleware attributes HTTP log lines to their request.
func (h *WSHandler) eventContext(client *hub.Client, eventType string) context.Context {
	logCtx := log.L().With().
		Str(log.FieldConnID, client.ID).
		Str(log.FieldEvent, eventType)
	if client.UserID != "" {
		logCtx = logCtx.Str(log.FieldUserID, client.UserID)
	}
	return log.WithLogger(context.Background(), logCtx.Logger())
}
