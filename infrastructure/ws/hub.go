package ws

import (
	"log"
	"sync"
)

// Hub is the in-memory presence map: user id to the set of live connections
// bound to it. A user may hold several connections at once (tabs, devices);
// the user counts as online while the set is non-empty. State is process
// lifetime only and lost on restart.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[string]*Client // userID -> connID -> client

	onUserOnline  func(userID string)
	onUserOffline func(userID string)
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[string]*Client),
	}
}

// RegisterClient binds a connection to its user. The first connection of a
// user fires the online callback; further connections are silent. Registering
// the same connection twice is a no-op.
func (h *Hub) RegisterClient(client *Client) {
	h.mu.Lock()
	conns, ok := h.clients[client.UserId]
	if !ok {
		conns = make(map[string]*Client)
		h.clients[client.UserId] = conns
	}
	if _, exists := conns[client.ConnId]; exists {
		h.mu.Unlock()
		return
	}
	first := len(conns) == 0
	conns[client.ConnId] = client
	h.mu.Unlock()

	log.Printf("%s connected (%s)", client.UserId, client.ConnId)

	if first && h.onUserOnline != nil {
		h.onUserOnline(client.UserId)
	}
}

// UnregisterClient removes a connection. The client carries its own user id,
// so cleanup is a direct lookup rather than a scan. Removing the user's last
// connection drops the presence entry and fires the offline callback.
func (h *Hub) UnregisterClient(client *Client) {
	h.mu.Lock()
	conns, ok := h.clients[client.UserId]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, exists := conns[client.ConnId]; !exists {
		h.mu.Unlock()
		return
	}
	delete(conns, client.ConnId)
	close(client.send)
	last := len(conns) == 0
	if last {
		delete(h.clients, client.UserId)
	}
	h.mu.Unlock()

	log.Printf("%s disconnected (%s)", client.UserId, client.ConnId)

	if last && h.onUserOffline != nil {
		h.onUserOffline(client.UserId)
	}
}

// SendToUser delivers a message to every connection bound to userID. Offline
// users and full send buffers are silently skipped.
func (h *Hub) SendToUser(userID string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients[userID] {
		select {
		case client.send <- message:
		default:
			log.Printf("send buffer full, dropping message for %s (%s)", userID, client.ConnId)
		}
	}
}

// Broadcast delivers a message to every connection of every user.
func (h *Hub) Broadcast(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for userID, conns := range h.clients {
		for _, client := range conns {
			select {
			case client.send <- message:
			default:
				log.Printf("send buffer full, dropping broadcast for %s (%s)", userID, client.ConnId)
			}
		}
	}
}

func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, conns := range h.clients {
		count += len(conns)
	}
	return count
}

func (h *Hub) SetOnUserOnline(callback func(userID string)) {
	h.onUserOnline = callback
}

func (h *Hub) SetOnUserOffline(callback func(userID string)) {
	h.onUserOffline = callback
}

func (h *Hub) Close() error {
	return nil
}
