package push

import (
	"encoding/json"
	"testing"
	"time"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	// create fake client
	client := &Client{
		Send:   make(chan []byte, 10),
		UserID: "u1",
	}

	// register client
	hub.register <- client

	// broadcast a planner event to the user
	data, _ := json.Marshal(map[string]string{"action": "updated", "plannerId": "p1"})
	hub.Broadcast("u1", data)

	select {
	case got := <-client.Send:
		if string(got) != string(data) {
			t.Fatalf("expected %s, got %s", data, got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	// unregister client
	hub.unregister <- client
}

func TestHubBroadcastOnlyReachesOwnSessions(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	mine := &Client{Send: make(chan []byte, 10), UserID: "u1"}
	other := &Client{Send: make(chan []byte, 10), UserID: "u2"}
	hub.register <- mine
	hub.register <- other

	hub.Broadcast("u1", []byte("for u1"))

	select {
	case <-mine.Send:
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for own message")
	}

	select {
	case got := <-other.Send:
		t.Fatalf("other user received %s", got)
	case <-time.After(100 * time.Millisecond):
	}
}
