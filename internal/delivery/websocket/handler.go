package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"mingle/infrastructure/ws"
	"mingle/internal/usecase"

	"github.com/gorilla/websocket"
)

// setupWait bounds how long a connection may stay anonymous before the
// server gives up on it.
const setupWait = 30 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebsocketHandler terminates the persistent channel. Each connection moves
// through anonymous -> bound -> closed: only a valid setup event is honored
// while anonymous, and a disconnect unbinds the connection as its only
// cleanup. Malformed or out-of-state events are dropped without an ack.
type WebsocketHandler struct {
	presence  usecase.PresenceUsecase
	messageUc usecase.MessageUsecase
	authUc    usecase.AuthUsecase
}

func NewWebsocketHandler(presence usecase.PresenceUsecase, messageUc usecase.MessageUsecase, authUc usecase.AuthUsecase) *WebsocketHandler {
	return &WebsocketHandler{
		presence:  presence,
		messageUc: messageUc,
		authUc:    authUc,
	}
}

func (h *WebsocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Upgrade error: %v", err)
		return
	}

	userId, ok := h.awaitSetup(conn)
	if !ok {
		conn.Close()
		return
	}

	client := h.presence.NewClient(userId, conn)
	h.presence.Bind(client)

	if data, err := usecase.NewEvent(usecase.EventConnected, nil); err == nil {
		client.Queue(data)
	}

	ctx := context.Background()

	go client.WritePump()
	client.ReadPump(func(data []byte) {
		h.dispatch(ctx, client, data)
	})
}

// awaitSetup reads frames until a valid setup event arrives. The bound
// identity comes from the verified token; a claimed userId that does not
// match the token's subject is rejected and the connection stays anonymous.
func (h *WebsocketHandler) awaitSetup(conn *websocket.Conn) (string, bool) {
	conn.SetReadDeadline(time.Now().Add(setupWait))

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return "", false
		}

		var event InboundEvent
		if err := json.Unmarshal(data, &event); err != nil || event.Event != EventSetup {
			log.Printf("dropping pre-setup event")
			continue
		}

		var payload SetupPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil || payload.Token == "" {
			log.Printf("dropping malformed setup event")
			continue
		}

		claims, err := h.authUc.ValidateAccessToken(payload.Token)
		if err != nil {
			log.Printf("setup with invalid token: %v", err)
			continue
		}
		if payload.UserId != "" && payload.UserId != claims.UserId {
			log.Printf("setup userId %s does not match token subject", payload.UserId)
			continue
		}

		return claims.UserId, true
	}
}

// dispatch routes one inbound frame from a bound connection. The bound
// identity always overrides any client-supplied "from" field.
func (h *WebsocketHandler) dispatch(ctx context.Context, client *ws.Client, data []byte) {
	var event InboundEvent
	if err := json.Unmarshal(data, &event); err != nil {
		log.Printf("dropping malformed event from %s: %v", client.UserId, err)
		return
	}

	switch event.Event {
	case EventSendMessage:
		h.handleSendMessage(ctx, client, event.Data)

	case EventMessageRead:
		h.handleMessageRead(ctx, client, event.Data)

	case EventTyping:
		h.handleTyping(client, event.Data, true)

	case EventTypingStop:
		h.handleTyping(client, event.Data, false)

	case EventSetup:
		// Already bound; rebinding a live connection is not supported.
		log.Printf("dropping setup on bound connection %s", client.ConnId)

	default:
		log.Printf("dropping unknown event %q from %s", event.Event, client.UserId)
	}
}

// handleSendMessage persists through the message store, which also relays
// the live messageReceived event, so a channel send can never broadcast a
// message that was not persisted.
func (h *WebsocketHandler) handleSendMessage(ctx context.Context, client *ws.Client, data json.RawMessage) {
	var payload SendMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.To == "" {
		log.Printf("dropping malformed sendMessage from %s", client.UserId)
		return
	}

	if _, err := h.messageUc.Send(ctx, client.UserId, payload.To, payload.Text); err != nil {
		log.Printf("channel send from %s failed: %v", client.UserId, err)
	}
}

func (h *WebsocketHandler) handleMessageRead(ctx context.Context, client *ws.Client, data json.RawMessage) {
	var payload MessageReadPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.MessageId == "" {
		log.Printf("dropping malformed messageRead from %s", client.UserId)
		return
	}

	if _, err := h.messageUc.MarkRead(ctx, client.UserId, payload.MessageId); err != nil {
		log.Printf("channel markRead from %s failed: %v", client.UserId, err)
	}
}

func (h *WebsocketHandler) handleTyping(client *ws.Client, data json.RawMessage, starting bool) {
	var payload TypingPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.To == "" {
		log.Printf("dropping malformed typing event from %s", client.UserId)
		return
	}

	h.presence.RelayTyping(client.UserId, payload.To, starting)
}
