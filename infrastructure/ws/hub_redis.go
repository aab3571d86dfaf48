package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

// RedisHub extends the in-memory Hub across server instances. Local
// connections are served directly; everything is also published on Redis
// pub/sub so a user's connections on other instances receive the same relay.
// Presence callbacks still fire on local transitions only.
type RedisHub struct {
	*Hub

	redisClient *redis.Client
	pubsub      *redis.PubSub
	serverID    string
}

// relayEnvelope is the cross-server frame. An empty ToUserID means the
// payload is a broadcast for every connection.
type relayEnvelope struct {
	FromServerID string          `json:"fromServerId"`
	ToUserID     string          `json:"toUserId,omitempty"`
	Payload      json.RawMessage `json:"payload"`
}

func NewRedisHub(redisAddr, serverID string) *RedisHub {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	hub := &RedisHub{
		Hub:         NewHub(),
		redisClient: rdb,
		serverID:    serverID,
	}

	hub.pubsub = rdb.PSubscribe(context.Background(), "relay:*")
	go hub.subscribe()

	return hub
}

func (h *RedisHub) subscribe() {
	log.Printf("[%s] redis relay subscriber started", h.serverID)

	for msg := range h.pubsub.Channel() {
		var envelope relayEnvelope
		if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
			log.Printf("[%s] bad relay envelope: %v", h.serverID, err)
			continue
		}

		// Our own publishes come back through the subscription.
		if envelope.FromServerID == h.serverID {
			continue
		}

		if envelope.ToUserID == "" {
			h.Hub.Broadcast(envelope.Payload)
			continue
		}
		if h.Hub.IsOnline(envelope.ToUserID) {
			h.Hub.SendToUser(envelope.ToUserID, envelope.Payload)
		}
	}
}

func (h *RedisHub) RegisterClient(client *Client) {
	h.Hub.RegisterClient(client)

	// Best-effort placement marker for operational visibility.
	h.redisClient.Set(context.Background(), "presence:"+client.UserId, h.serverID, 0)
}

func (h *RedisHub) UnregisterClient(client *Client) {
	h.Hub.UnregisterClient(client)

	if !h.Hub.IsOnline(client.UserId) {
		h.redisClient.Del(context.Background(), "presence:"+client.UserId)
	}
}

// SendToUser delivers to local connections and publishes for any connections
// the user holds on other instances.
func (h *RedisHub) SendToUser(userID string, message []byte) {
	h.Hub.SendToUser(userID, message)
	h.publish("relay:user:"+userID, userID, message)
}

func (h *RedisHub) Broadcast(message []byte) {
	h.Hub.Broadcast(message)
	h.publish("relay:broadcast", "", message)
}

func (h *RedisHub) publish(channel, toUserID string, payload []byte) {
	envelope := relayEnvelope{
		FromServerID: h.serverID,
		ToUserID:     toUserID,
		Payload:      payload,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		log.Printf("[%s] marshal relay envelope: %v", h.serverID, err)
		return
	}

	if err := h.redisClient.Publish(context.Background(), channel, data).Err(); err != nil {
		log.Printf("[%s] publish relay: %v", h.serverID, err)
	}
}

func (h *RedisHub) Close() error {
	if err := h.pubsub.Close(); err != nil {
		return err
	}
	return h.redisClient.Close()
}
