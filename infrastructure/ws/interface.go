package ws

// IHub owns the live connection state: which users are online and through
// which connections. Deliveries are fire-and-forget; there is no delivery
// confirmation and no retry.
type IHub interface {
	RegisterClient(client *Client)
	UnregisterClient(client *Client)
	SendToUser(userID string, message []byte)
	Broadcast(message []byte)
	IsOnline(userID string) bool
	ConnectionCount() int
	SetOnUserOnline(callback func(userID string))
	SetOnUserOffline(callback func(userID string))
	Close() error
}
