// Package hub owns the live WebSocket connections and their broadcast
// groups. A group ("room") is keyed by relation id: every connection
// that joined a relation's chat receives its messages, including the
// sender's own other tabs.
package hub

import (
	"encoding/json"
	"sync"

	"github.com/kumarpraveer143/easyrent-sub000/internal/log"
)

type Hub struct {
	clients    map[string]*Client            // clientID -> client
	rooms      map[string]map[string]*Client // relationID -> clientID -> client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *roomMessage
	mu         sync.RWMutex
}

type roomMessage struct {
	RelationID string
	Data       []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *roomMessage, 256),
	}
}

// Run processes register/unregister/broadcast events. Start it once on
// its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			l := log.L()
			l.Debug().Str(log.FieldConnID, client.ID).Msg("client connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				for relationID, members := range h.rooms {
					delete(members, client.ID)
					if len(members) == 0 {
						delete(h.rooms, relationID)
					}
				}
				delete(h.clients, client.ID)
				client.closeSend()
			}
			h.mu.Unlock()
			l := log.L()
			l.Debug().Str(log.FieldConnID, client.ID).Msg("client disconnected")

		case msg := <-h.broadcast:
			h.mu.RLock()
			if members, ok := h.rooms[msg.RelationID]; ok {
				for _, client := range members {
					if !client.trySend(msg.Data) {
						go h.removeClient(client)
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// JoinRoom adds a client to a relation's broadcast group. There is no
// leave operation: membership ends when the connection drops.
func (h *Hub) JoinRoom(client *Client, relationID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[relationID]; !ok {
		h.rooms[relationID] = make(map[string]*Client)
	}
	h.rooms[relationID][client.ID] = client
	l := log.L()
	l.Info().Str(log.FieldConnID, client.ID).Str(log.FieldRelationID, relationID).Msg("client joined chat room")
}

// BroadcastToRoom fans an event out to every member of a relation's
// group, including the sender.
func (h *Hub) BroadcastToRoom(relationID string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	h.broadcast <- &roomMessage{RelationID: relationID, Data: data}
	return nil
}

// SendToClient delivers an event to a single connection. It reports
// false when the connection is no longer tracked or its buffer cannot
// take the event.
func (h *Hub) SendToClient(clientID string, event interface{}) bool {
	data, err := json.Marshal(event)
	if err != nil {
		return false
	}

	h.mu.RLock()
	client, ok := h.clients[clientID]
	h.mu.RUnlock()
	if !ok {
		return false
	}

	return client.trySend(data)
}

// RoomClientCount returns how many connections joined a relation.
func (h *Hub) RoomClientCount(relationID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if members, ok := h.rooms[relationID]; ok {
		return len(members)
	}
	return 0
}

func (h *Hub) removeClient(client *Client) {
	h.unregister <- client
}
