// Package client is the Go counterpart of the browser's realtime
// adapter: one shared WebSocket connection per process, registered
// under a user id, used to join conversation rooms, send messages and
// receive best-effort notification pushes.
package client

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ErrNotConnected is returned by operations that need a live connection.
var ErrNotConnected = errors.New("client: not connected")

// Message is the persisted chat message as carried by receive_message.
type Message struct {
	ID         string    `json:"id"`
	RelationID string    `json:"relationId"`
	SenderID   string    `json:"senderId"`
	Message    string    `json:"message"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Notification is the payload of a notification push.
type Notification struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Type       string    `json:"type"`
	Message    string    `json:"message"`
	RoomID     string    `json:"roomId"`
	RoomNumber string    `json:"roomNumber"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"createdAt"`
}

type MessageHandler func(Message)
type NotificationHandler func(Notification)

// Adapter manages a single WebSocket connection to the realtime
// gateway. Connect while connected is a no-op; Disconnect clears the
// connection so a later Connect dials fresh.
type Adapter struct {
	url string

	mu        sync.Mutex
	conn      *websocket.Conn
	notifSubs map[int]NotificationHandler
	nextSubID int
	onMessage MessageHandler

	writeMu sync.Mutex
}

// New creates an adapter for the given gateway URL (e.g. ws://host/ws).
func New(url string) *Adapter {
	return &Adapter{
		url:       url,
		notifSubs: make(map[int]NotificationHandler),
	}
}

// Connect dials the gateway if no connection exists and immediately
// emits register with userID once the socket is open.
func (a *Adapter) Connect(userID string) error {
	a.mu.Lock()
	if a.conn != nil {
		a.mu.Unlock()
		return nil
	}

	conn, _, err := websocket.DefaultDialer.Dial(a.url, nil)
	if err != nil {
		a.mu.Unlock()
		return err
	}
	a.conn = conn
	a.mu.Unlock()

	go a.readLoop(conn)

	return a.writeJSON(registerEvent{Type: "register", UserID: userID})
}

// Connected reports whether a live connection exists.
func (a *Adapter) Connected() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.conn != nil
}

// Disconnect closes the connection. The adapter can be reconnected
// with a later Connect call.
func (a *Adapter) Disconnect() {
	a.mu.Lock()
	conn := a.conn
	a.conn = nil
	a.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}

// SubscribeNotifications attaches a handler invoked for each inbound
// notification push. Multiple independent subscribers are supported;
// the returned function detaches this one.
func (a *Adapter) SubscribeNotifications(h NotificationHandler) (unsubscribe func()) {
	a.mu.Lock()
	id := a.nextSubID
	a.nextSubID++
	a.notifSubs[id] = h
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		delete(a.notifSubs, id)
		a.mu.Unlock()
	}
}

// OnReceiveMessage sets the handler for inbound chat messages,
// replacing any previous one so a remounted UI never receives
// duplicate deliveries.
func (a *Adapter) OnReceiveMessage(h MessageHandler) {
	a.mu.Lock()
	a.onMessage = h
	a.mu.Unlock()
}

// JoinChat joins the broadcast group of a conversation.
func (a *Adapter) JoinChat(relationID string) error {
	return a.writeJSON(joinChatEvent{Type: "join_chat", RelationID: relationID})
}

// SendMessage emits a chat message. Optimistic: it does not wait for
// any acknowledgement.
func (a *Adapter) SendMessage(relationID, senderID, body string) error {
	return a.writeJSON(sendMessageEvent{
		Type:       "send_message",
		RelationID: relationID,
		SenderID:   senderID,
		Message:    body,
	})
}

type registerEvent struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

type joinChatEvent struct {
	Type       string `json:"type"`
	RelationID string `json:"relationId"`
}

type sendMessageEvent struct {
	Type       string `json:"type"`
	RelationID string `json:"relationId"`
	SenderID   string `json:"senderId"`
	Message    string `json:"message"`
}

type baseEvent struct {
	Type string `json:"type"`
}

type notificationEvent struct {
	Notification Notification `json:"notification"`
}

func (a *Adapter) writeJSON(v interface{}) error {
	a.mu.Lock()
	conn := a.conn
	a.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}

	a.writeMu.Lock()
	defer a.writeMu.Unlock()
	return conn.WriteJSON(v)
}

func (a *Adapter) readLoop(conn *websocket.Conn) {
	defer func() {
		a.mu.Lock()
		if a.conn == conn {
			a.conn = nil
		}
		a.mu.Unlock()
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var base baseEvent
		if err := json.Unmarshal(data, &base); err != nil {
			continue
		}

		switch base.Type {
		case "receive_message":
			var msg Message
			if err := json.Unmarshal(data, &msg); err != nil {
				continue
			}
			a.mu.Lock()
			h := a.onMessage
			a.mu.Unlock()
			if h != nil {
				h(msg)
			}

		case "notification":
			var evt notificationEvent
			if err := json.Unmarshal(data, &evt); err != nil {
				continue
			}
			a.mu.Lock()
			subs := make([]NotificationHandler, 0, len(a.notifSubs))
			for _, h := range a.notifSubs {
				subs = append(subs, h)
			}
			a.mu.Unlock()
			for _, h := range subs {
				h(evt.Notification)
			}
		}
	}
}
