package client

import "sync"

// Process-wide shared adapter, mirroring the one-socket-per-tab
// behavior of the web client.
var (
	sharedMu sync.Mutex
	shared   *Adapter
)

// Connect returns the shared adapter, dialing it if needed. Calling
// Connect while already connected is a no-op and returns the existing
// adapter.
func Connect(url, userID string) (*Adapter, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if shared == nil {
		shared = New(url)
	}
	if err := shared.Connect(userID); err != nil {
		shared = nil
		return nil, err
	}
	return shared, nil
}

// Disconnect tears down the shared adapter, if any, so a subsequent
// Connect creates a fresh one.
func Disconnect() {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if shared != nil {
		shared.Disconnect()
		shared = nil
	}
}
