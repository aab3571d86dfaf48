package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"mingle/internal/entity"
	"mingle/internal/repository"
	"mingle/pkg/timeago"
)

var (
	ErrUnknownSender    = errors.New("authenticated sender does not exist")
	ErrInvalidRecipient = errors.New("recipient does not exist")
	ErrEmptyMessage     = errors.New("message text is required")
	ErrForbidden        = errors.New("only the recipient may mark a message as read")
)

type MessageUsecase interface {
	Send(ctx context.Context, senderId, recipientId, text string) (entity.Message, error)
	ListConversations(ctx context.Context, userId string) ([]entity.ConversationView, error)
	FetchHistory(ctx context.Context, userId, counterpartId string) ([]entity.MessageView, error)
	MarkRead(ctx context.Context, userId, messageId string) (entity.Message, error)
	MarkConversationRead(ctx context.Context, userId, counterpartId string) (int64, error)
	UnreadCount(ctx context.Context, userId string) (int64, error)
}

type messageUsecase struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	presence    PresenceUsecase
}

func NewMessageUsecase(messageRepo repository.MessageRepository, userRepo repository.UserRepository, presence PresenceUsecase) MessageUsecase {
	return &messageUsecase{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		presence:    presence,
	}
}

// Send validates both parties, persists the message unread, then relays the
// live messageReceived event itself. Persisting and relaying in one place
// keeps the push and the durable record from diverging; an offline recipient
// just misses the push and recovers the message from history.
func (m *messageUsecase) Send(ctx context.Context, senderId, recipientId, text string) (entity.Message, error) {
	if strings.TrimSpace(text) == "" {
		return entity.Message{}, ErrEmptyMessage
	}

	senderExists, err := m.userRepo.Exists(ctx, senderId)
	if err != nil {
		return entity.Message{}, err
	}
	if !senderExists {
		return entity.Message{}, ErrUnknownSender
	}

	recipientExists, err := m.userRepo.Exists(ctx, recipientId)
	if err != nil {
		return entity.Message{}, err
	}
	if !recipientExists {
		return entity.Message{}, ErrInvalidRecipient
	}

	message, err := m.messageRepo.Create(ctx, entity.Message{
		From: senderId,
		To:   recipientId,
		Text: text,
	})
	if err != nil {
		return entity.Message{}, err
	}

	m.presence.RelayMessage(message)

	return message, nil
}

// ListConversations returns one entry per counterpart, most recent first,
// with relative-time labels computed at response time.
func (m *messageUsecase) ListConversations(ctx context.Context, userId string) ([]entity.ConversationView, error) {
	conversations, err := m.messageRepo.Conversations(ctx, userId)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].LastMessage.CreatedAt.After(conversations[j].LastMessage.CreatedAt)
	})

	views := make([]entity.ConversationView, 0, len(conversations))
	for _, conversation := range conversations {
		views = append(views, entity.ConversationView{
			User:        conversation.User,
			LastMessage: annotate(conversation.LastMessage),
			UnreadCount: conversation.UnreadCount,
		})
	}

	return views, nil
}

// FetchHistory returns all messages between the caller and the counterpart,
// oldest first. Opening the conversation is itself the read acknowledgment:
// everything the counterpart sent is transitioned to read before the history
// is loaded, so the returned sequence already reflects the transition.
func (m *messageUsecase) FetchHistory(ctx context.Context, userId, counterpartId string) ([]entity.MessageView, error) {
	if _, err := m.userRepo.Get(ctx, counterpartId); err != nil {
		return nil, err
	}

	if _, err := m.messageRepo.MarkConversationRead(ctx, userId, counterpartId, time.Now()); err != nil {
		return nil, err
	}

	messages, err := m.messageRepo.HistoryBetween(ctx, userId, counterpartId)
	if err != nil {
		return nil, err
	}

	views := make([]entity.MessageView, 0, len(messages))
	for _, message := range messages {
		views = append(views, annotate(message))
	}

	return views, nil
}

// MarkRead transitions a single message to read. Only the recipient may do
// this; re-marking an already-read message succeeds without changing readAt.
// A performed transition notifies the original sender over the channel.
func (m *messageUsecase) MarkRead(ctx context.Context, userId, messageId string) (entity.Message, error) {
	message, err := m.messageRepo.Get(ctx, messageId)
	if err != nil {
		return entity.Message{}, err
	}

	if message.To != userId {
		return entity.Message{}, ErrForbidden
	}

	if message.IsRead {
		return message, nil
	}

	readAt := time.Now()
	transitioned, err := m.messageRepo.MarkRead(ctx, messageId, readAt)
	if err != nil {
		return entity.Message{}, err
	}

	if !transitioned {
		// Lost the race to a concurrent mark; the stored readAt wins.
		return m.messageRepo.Get(ctx, messageId)
	}

	message.IsRead = true
	message.ReadAt = &readAt

	m.presence.RelayReadReceipt(message.From, message.Id, readAt)

	return message, nil
}

// MarkConversationRead transitions every unread message from the counterpart
// to the caller and returns how many were transitioned.
func (m *messageUsecase) MarkConversationRead(ctx context.Context, userId, counterpartId string) (int64, error) {
	if _, err := m.userRepo.Get(ctx, counterpartId); err != nil {
		return 0, err
	}

	return m.messageRepo.MarkConversationRead(ctx, userId, counterpartId, time.Now())
}

func (m *messageUsecase) UnreadCount(ctx context.Context, userId string) (int64, error) {
	return m.messageRepo.UnreadCount(ctx, userId)
}

func annotate(message entity.Message) entity.MessageView {
	return entity.MessageView{
		Message: message,
		SentAgo: timeago.Format(message.CreatedAt),
		ReadAgo: timeago.FormatPtr(message.ReadAt),
	}
}
