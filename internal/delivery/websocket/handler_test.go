package websocket

import (
	"context"
	"testing"
	"time"

	"mingle/infrastructure/ws"
	"mingle/internal/entity"

	"github.com/gorilla/websocket"
)

type sendCall struct {
	from, to, text string
}

type fakeMessageUc struct {
	sends []sendCall
	reads []string
}

func (f *fakeMessageUc) Send(_ context.Context, senderId, recipientId, text string) (entity.Message, error) {
	f.sends = append(f.sends, sendCall{senderId, recipientId, text})
	return entity.Message{Id: "msg-1", From: senderId, To: recipientId, Text: text}, nil
}

func (f *fakeMessageUc) ListConversations(context.Context, string) ([]entity.ConversationView, error) {
	return nil, nil
}

func (f *fakeMessageUc) FetchHistory(context.Context, string, string) ([]entity.MessageView, error) {
	return nil, nil
}

func (f *fakeMessageUc) MarkRead(_ context.Context, userId, messageId string) (entity.Message, error) {
	f.reads = append(f.reads, userId+"/"+messageId)
	return entity.Message{Id: messageId}, nil
}

func (f *fakeMessageUc) MarkConversationRead(context.Context, string, string) (int64, error) {
	return 0, nil
}

func (f *fakeMessageUc) UnreadCount(context.Context, string) (int64, error) {
	return 0, nil
}

type typingCall struct {
	from, to string
	starting bool
}

type fakePresenceUc struct {
	typing []typingCall
}

func (f *fakePresenceUc) NewClient(userId string, conn *websocket.Conn) *ws.Client {
	return ws.NewClient(userId, nil, conn)
}
func (f *fakePresenceUc) Bind(*ws.Client)                            {}
func (f *fakePresenceUc) Unbind(*ws.Client)                          {}
func (f *fakePresenceUc) IsOnline(string) bool                       { return false }
func (f *fakePresenceUc) RelayMessage(entity.Message)                {}
func (f *fakePresenceUc) RelayReadReceipt(string, string, time.Time) {}
func (f *fakePresenceUc) RelayTyping(from, to string, starting bool) {
	f.typing = append(f.typing, typingCall{from, to, starting})
}

func newTestGateway() (*WebsocketHandler, *fakeMessageUc, *fakePresenceUc, *ws.Client) {
	messageUc := &fakeMessageUc{}
	presenceUc := &fakePresenceUc{}
	handler := NewWebsocketHandler(presenceUc, messageUc, nil)
	client := ws.NewClient("alice", nil, nil)
	return handler, messageUc, presenceUc, client
}

func TestDispatch_SendMessageUsesBoundIdentity(t *testing.T) {
	handler, messageUc, _, client := newTestGateway()

	// The client-supplied "from" is spoofed; the bound identity must win.
	frame := []byte(`{"event":"sendMessage","data":{"from":"mallory","to":"bob","text":"hi"}}`)
	handler.dispatch(context.Background(), client, frame)

	if len(messageUc.sends) != 1 {
		t.Fatalf("Send called %d times, want 1", len(messageUc.sends))
	}
	got := messageUc.sends[0]
	if got.from != "alice" || got.to != "bob" || got.text != "hi" {
		t.Fatalf("Send called with %+v", got)
	}
}

func TestDispatch_MessageRead(t *testing.T) {
	handler, messageUc, _, client := newTestGateway()

	frame := []byte(`{"event":"messageRead","data":{"messageId":"msg-9","from":"bob","to":"alice"}}`)
	handler.dispatch(context.Background(), client, frame)

	if len(messageUc.reads) != 1 || messageUc.reads[0] != "alice/msg-9" {
		t.Fatalf("MarkRead calls = %v, want [alice/msg-9]", messageUc.reads)
	}
}

func TestDispatch_TypingStartAndStop(t *testing.T) {
	handler, _, presenceUc, client := newTestGateway()

	handler.dispatch(context.Background(), client, []byte(`{"event":"typing","data":{"from":"alice","to":"bob"}}`))
	handler.dispatch(context.Background(), client, []byte(`{"event":"typingStop","data":{"from":"alice","to":"bob"}}`))

	if len(presenceUc.typing) != 2 {
		t.Fatalf("RelayTyping called %d times, want 2", len(presenceUc.typing))
	}
	if presenceUc.typing[0] != (typingCall{"alice", "bob", true}) {
		t.Errorf("start call = %+v", presenceUc.typing[0])
	}
	if presenceUc.typing[1] != (typingCall{"alice", "bob", false}) {
		t.Errorf("stop call = %+v", presenceUc.typing[1])
	}
}

func TestDispatch_DropsMalformedAndUnknownEvents(t *testing.T) {
	handler, messageUc, presenceUc, client := newTestGateway()

	frames := [][]byte{
		[]byte(`not json`),
		[]byte(`{"event":"unknown","data":{}}`),
		[]byte(`{"event":"sendMessage","data":{"text":"no recipient"}}`),
		[]byte(`{"event":"messageRead","data":{}}`),
		[]byte(`{"event":"typing","data":{"from":"alice"}}`),
		[]byte(`{"event":"setup","data":{"userId":"alice","token":"t"}}`),
	}
	for _, frame := range frames {
		handler.dispatch(context.Background(), client, frame)
	}

	if len(messageUc.sends) != 0 || len(messageUc.reads) != 0 || len(presenceUc.typing) != 0 {
		t.Fatalf("dropped events must have no effect: sends=%v reads=%v typing=%v",
			messageUc.sends, messageUc.reads, presenceUc.typing)
	}
}
