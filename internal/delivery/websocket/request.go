package websocket

import "encoding/json"

// InboundEvent is the tagged-variant frame clients send over the channel:
// an event name selecting the payload type carried in Data.
type InboundEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Inbound event names, part of the wire contract.
const (
	EventSetup       = "setup"
	EventSendMessage = "sendMessage"
	EventMessageRead = "messageRead"
	EventTyping      = "typing"
	EventTypingStop  = "typingStop"
)

// SetupPayload binds the connection to an identity. The token is the same
// bearer credential used on the HTTP surface; the claimed userId must match
// its subject.
type SetupPayload struct {
	UserId string `json:"userId"`
	Token  string `json:"token"`
}

type SendMessagePayload struct {
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
}

type MessageReadPayload struct {
	MessageId string `json:"messageId"`
	From      string `json:"from"`
	To        string `json:"to"`
}

type TypingPayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}
