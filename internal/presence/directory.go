// Package presence tracks which connection currently belongs to which
// user. The directory is process-local and volatile: it is lost on
// restart, which is acceptable because clients re-register on
// reconnect. If the server is ever scaled across processes, each
// instance only sees its own connections; routing between instances
// would need a shared store plus pub/sub fan-out.
package presence

import "sync"

// Directory maps durable user ids to live connection ids. At most one
// connection per user: a new registration overwrites the previous one
// (last write wins, no multi-device fan-out). A bidirectional index
// keeps disconnect handling O(1), since disconnect only reveals the
// connection id.
type Directory struct {
	mu       sync.RWMutex
	userConn map[string]string // userID -> connID
	connUser map[string]string // connID -> userID
}

func NewDirectory() *Directory {
	return &Directory{
		userConn: make(map[string]string),
		connUser: make(map[string]string),
	}
}

// Register associates userID with connID, replacing any previous
// mapping for either side.
func (d *Directory) Register(userID, connID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if old, ok := d.userConn[userID]; ok {
		delete(d.connUser, old)
	}
	if prev, ok := d.connUser[connID]; ok && prev != userID {
		delete(d.userConn, prev)
	}

	d.userConn[userID] = connID
	d.connUser[connID] = userID
}

// Lookup returns the live connection id for a user, if any.
func (d *Directory) Lookup(userID string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	connID, ok := d.userConn[userID]
	return connID, ok
}

// RemoveByConnection drops the mapping owned by connID. A stale
// disconnect (the user already re-registered on another connection)
// is a no-op for the user side.
func (d *Directory) RemoveByConnection(connID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	userID, ok := d.connUser[connID]
	if !ok {
		return
	}
	delete(d.connUser, connID)
	if d.userConn[userID] == connID {
		delete(d.userConn, userID)
	}
}

// Len returns the number of registered users.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.userConn)
}
