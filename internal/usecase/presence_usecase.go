package usecase

import (
	"encoding/json"
	"log"
	"time"

	"mingle/infrastructure/ws"
	"mingle/internal/entity"

	"github.com/gorilla/websocket"
)

// Event names are part of the wire contract with clients.
const (
	EventConnected         = "connected"
	EventMessageReceived   = "messageReceived"
	EventMessageRead       = "messageReadNotification"
	EventUserTyping        = "userTyping"
	EventUserStoppedTyping = "userStoppedTyping"
	EventUserOnline        = "userOnline"
	EventUserOffline       = "userOffline"
)

// Event is the outbound channel frame: a tagged variant with a typed payload.
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NewEvent marshals an outbound channel frame.
func NewEvent(name string, data any) ([]byte, error) {
	var raw json.RawMessage
	if data != nil {
		payload, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		raw = payload
	}
	return json.Marshal(Event{Event: name, Data: raw})
}

type messageReceivedPayload struct {
	Id        string    `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type messageReadPayload struct {
	MessageId string    `json:"messageId"`
	ReadAt    time.Time `json:"readAt"`
}

type typingPayload struct {
	From string `json:"from"`
}

type presencePayload struct {
	UserId string `json:"userId"`
}

// PresenceUsecase is the presence and typing coordinator: it owns the
// translation from domain happenings to channel events and targets them at
// the right connections through the hub. All relays are fire-and-forget;
// an offline target simply receives nothing.
type PresenceUsecase interface {
	NewClient(userId string, conn *websocket.Conn) *ws.Client
	Bind(client *ws.Client)
	Unbind(client *ws.Client)
	IsOnline(userId string) bool
	RelayMessage(message entity.Message)
	RelayReadReceipt(originalSenderId, messageId string, readAt time.Time)
	RelayTyping(from, to string, starting bool)
}

type presenceUsecase struct {
	hub ws.IHub
}

func NewPresenceUsecase(hub ws.IHub) PresenceUsecase {
	p := &presenceUsecase{
		hub: hub,
	}

	// First and last connection transitions are announced to everyone.
	hub.SetOnUserOnline(func(userId string) {
		p.broadcastPresence(EventUserOnline, userId)
	})
	hub.SetOnUserOffline(func(userId string) {
		p.broadcastPresence(EventUserOffline, userId)
	})

	return p
}

// NewClient wraps a raw connection in a client bound to userId, wired to
// this coordinator's hub.
func (p *presenceUsecase) NewClient(userId string, conn *websocket.Conn) *ws.Client {
	return ws.NewClient(userId, p.hub, conn)
}

func (p *presenceUsecase) Bind(client *ws.Client) {
	p.hub.RegisterClient(client)
}

func (p *presenceUsecase) Unbind(client *ws.Client) {
	p.hub.UnregisterClient(client)
}

func (p *presenceUsecase) IsOnline(userId string) bool {
	return p.hub.IsOnline(userId)
}

// RelayMessage pushes a persisted message to the recipient's connections.
func (p *presenceUsecase) RelayMessage(message entity.Message) {
	data, err := NewEvent(EventMessageReceived, messageReceivedPayload{
		Id:        message.Id,
		From:      message.From,
		To:        message.To,
		Text:      message.Text,
		CreatedAt: message.CreatedAt,
	})
	if err != nil {
		log.Printf("marshal %s event: %v", EventMessageReceived, err)
		return
	}
	p.hub.SendToUser(message.To, data)
}

// RelayReadReceipt tells the original sender their message has been read.
func (p *presenceUsecase) RelayReadReceipt(originalSenderId, messageId string, readAt time.Time) {
	data, err := NewEvent(EventMessageRead, messageReadPayload{
		MessageId: messageId,
		ReadAt:    readAt,
	})
	if err != nil {
		log.Printf("marshal %s event: %v", EventMessageRead, err)
		return
	}
	p.hub.SendToUser(originalSenderId, data)
}

// RelayTyping forwards a typing start/stop signal to the named recipient
// only. Nothing is stored and no timeout is enforced; the stop signal is the
// client's responsibility.
func (p *presenceUsecase) RelayTyping(from, to string, starting bool) {
	name := EventUserTyping
	if !starting {
		name = EventUserStoppedTyping
	}

	data, err := NewEvent(name, typingPayload{From: from})
	if err != nil {
		log.Printf("marshal %s event: %v", name, err)
		return
	}
	p.hub.SendToUser(to, data)
}

func (p *presenceUsecase) broadcastPresence(name, userId string) {
	data, err := NewEvent(name, presencePayload{UserId: userId})
	if err != nil {
		log.Printf("marshal %s event: %v", name, err)
		return
	}
	p.hub.Broadcast(data)
}
