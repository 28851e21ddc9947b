package ws

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal(msg)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestHubReplacedOnReconnect(t *testing.T) {
	hub := NewHub(zap.NewNop())

	old := &Connection{GameCode: "ABC123", PlayerID: "p1", Send: make(chan []byte, 1), Hub: hub}
	hub.Register(old)
	waitFor(t, func() bool { return !hub.Replaced(old) && hub.hasConn(old) }, "first connection never registered")

	// Same player reconnects on a new socket before the old one tears
	// down; the old Send channel is closed at registration.
	replacement := &Connection{GameCode: "ABC123", PlayerID: "p1", Send: make(chan []byte, 1), Hub: hub}
	hub.Register(replacement)
	waitFor(t, func() bool { return hub.Replaced(old) }, "old connection never superseded")
	if hub.Replaced(replacement) {
		t.Error("live connection reported as replaced")
	}
	select {
	case _, open := <-old.Send:
		if open {
			t.Error("superseded connection received data instead of a close")
		}
	default:
		t.Error("superseded connection's send channel should be closed")
	}

	// The superseded socket's teardown must not unregister the live one.
	hub.Unregister(old)
	waitFor(t, func() bool { return hub.hasConn(replacement) }, "live connection dropped by stale unregister")
	if hub.Replaced(replacement) {
		t.Error("live connection reported as replaced after stale unregister")
	}

	// A plain disconnect with no replacement is not a supersession.
	hub.Unregister(replacement)
	waitFor(t, func() bool { return !hub.hasConn(replacement) }, "connection never unregistered")
	if hub.Replaced(replacement) {
		t.Error("unregistered connection with no successor reported as replaced")
	}
}

func (h *Hub) hasConn(conn *Connection) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.conns[conn.GameCode][conn.PlayerID] == conn
}
