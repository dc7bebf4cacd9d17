package domain

import "time"

// WebSocket event types from client.
const (
	EventRegister    = "register"
	EventJoinChat    = "join_chat"
	EventSendMessage = "send_message"
)

// WebSocket event types to client.
const (
	EventReceiveMessage = "receive_message"
	EventNotification   = "notification"
	EventError          = "error"
)

// Error codes
const (
	ErrCodeBadRequest    = "BAD_REQUEST"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// BaseEvent is the envelope shared by all WebSocket events.
type BaseEvent struct {
	Type string `json:"type"`
}

// Client -> Server events

type RegisterEvent struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

type JoinChatEvent struct {
	Type       string `json:"type"`
	RelationID string `json:"relationId"`
}

type SendMessageEvent struct {
	Type       string `json:"type"`
	RelationID string `json:"relationId"`
	SenderID   string `json:"senderId"`
	Message    string `json:"message"`
}

// Server -> Client events

// ReceiveMessageEvent carries the persisted message, so a client that
// receives it is guaranteed a subsequent history fetch includes it.
type ReceiveMessageEvent struct {
	Type       string    `json:"type"`
	ID         string    `json:"id"`
	RelationID string    `json:"relationId"`
	SenderID   string    `json:"senderId"`
	Message    string    `json:"message"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"createdAt"`
}

func NewReceiveMessageEvent(m *ChatMessage) *ReceiveMessageEvent {
	return &ReceiveMessageEvent{
		Type:       EventReceiveMessage,
		ID:         m.ID,
		RelationID: m.RelationID,
		SenderID:   m.SenderID,
		Message:    m.Body,
		Read:       m.Read,
		CreatedAt:  m.CreatedAt,
	}
}

type NotificationEvent struct {
	Type         string       `json:"type"`
	Notification Notification `json:"notification"`
}

func NewNotificationEvent(n *Notification) *NotificationEvent {
	return &NotificationEvent{Type: EventNotification, Notification: *n}
}

type ErrorEvent struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewErrorEvent(code, message string) *ErrorEvent {
	return &ErrorEvent{Type: EventError, Code: code, Message: message}
}
