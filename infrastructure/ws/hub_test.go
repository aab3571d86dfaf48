package ws

import "testing"

func newTestClient(userId, connId string) *Client {
	return &Client{
		ConnId: connId,
		UserId: userId,
		send:   make(chan []byte, 8),
	}
}

func drain(c *Client) [][]byte {
	var messages [][]byte
	for {
		select {
		case m := <-c.send:
			messages = append(messages, m)
		default:
			return messages
		}
	}
}

func TestHub_OnlineOfflineTransitions(t *testing.T) {
	hub := NewHub()

	var online, offline []string
	hub.SetOnUserOnline(func(userId string) { online = append(online, userId) })
	hub.SetOnUserOffline(func(userId string) { offline = append(offline, userId) })

	first := newTestClient("alice", "c1")
	second := newTestClient("alice", "c2")

	hub.RegisterClient(first)
	if len(online) != 1 || online[0] != "alice" {
		t.Fatalf("first connection should fire exactly one online callback, got %v", online)
	}

	// A second tab comes up: no additional announcement.
	hub.RegisterClient(second)
	if len(online) != 1 {
		t.Fatalf("second connection fired online callback, got %v", online)
	}

	hub.UnregisterClient(first)
	if len(offline) != 0 {
		t.Fatalf("user still has a live connection, offline fired: %v", offline)
	}
	if !hub.IsOnline("alice") {
		t.Fatalf("alice should still be online with one connection left")
	}

	hub.UnregisterClient(second)
	if len(offline) != 1 || offline[0] != "alice" {
		t.Fatalf("last disconnect should fire exactly one offline callback, got %v", offline)
	}
	if hub.IsOnline("alice") {
		t.Fatalf("alice should be offline after last disconnect")
	}
}

func TestHub_RegisterIdempotentPerConnection(t *testing.T) {
	hub := NewHub()

	calls := 0
	hub.SetOnUserOnline(func(string) { calls++ })

	client := newTestClient("bob", "c1")
	hub.RegisterClient(client)
	hub.RegisterClient(client)

	if calls != 1 {
		t.Fatalf("re-registering the same connection fired online %d times", calls)
	}
	if got := hub.ConnectionCount(); got != 1 {
		t.Fatalf("ConnectionCount = %d, want 1", got)
	}
}

func TestHub_SendToUserTargetsAllAndOnlyUserConnections(t *testing.T) {
	hub := NewHub()

	aliceTab := newTestClient("alice", "a1")
	aliceApp := newTestClient("alice", "a2")
	bob := newTestClient("bob", "b1")

	hub.RegisterClient(aliceTab)
	hub.RegisterClient(aliceApp)
	hub.RegisterClient(bob)

	hub.SendToUser("alice", []byte("hi"))

	if got := len(drain(aliceTab)); got != 1 {
		t.Errorf("alice tab received %d messages, want 1", got)
	}
	if got := len(drain(aliceApp)); got != 1 {
		t.Errorf("alice app received %d messages, want 1", got)
	}
	if got := len(drain(bob)); got != 0 {
		t.Errorf("bob received %d messages, want 0", got)
	}
}

func TestHub_SendToOfflineUserIsDropped(t *testing.T) {
	hub := NewHub()

	// No error, no panic: live push is fire-and-forget.
	hub.SendToUser("nobody", []byte("hello"))
}

func TestHub_BroadcastReachesEveryConnection(t *testing.T) {
	hub := NewHub()

	clients := []*Client{
		newTestClient("alice", "a1"),
		newTestClient("alice", "a2"),
		newTestClient("bob", "b1"),
	}
	for _, c := range clients {
		hub.RegisterClient(c)
	}

	hub.Broadcast([]byte("announcement"))

	for _, c := range clients {
		if got := len(drain(c)); got != 1 {
			t.Errorf("%s/%s received %d broadcasts, want 1", c.UserId, c.ConnId, got)
		}
	}
}

func TestHub_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()

	client := &Client{ConnId: "c1", UserId: "carol", send: make(chan []byte, 1)}
	hub.RegisterClient(client)

	hub.SendToUser("carol", []byte("one"))
	hub.SendToUser("carol", []byte("two")) // buffer full, must not block

	if got := len(drain(client)); got != 1 {
		t.Fatalf("expected exactly the buffered message, got %d", got)
	}
}

func TestHub_UnregisterUnknownConnectionIsNoop(t *testing.T) {
	hub := NewHub()

	offline := 0
	hub.SetOnUserOffline(func(string) { offline++ })

	hub.UnregisterClient(newTestClient("dave", "ghost"))

	if offline != 0 {
		t.Fatalf("unregistering an unknown connection fired offline %d times", offline)
	}
}
