package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"mingle/internal/repository"
	"mingle/internal/usecase"

	"github.com/go-chi/chi/v5"
)

type HttpHandler struct {
	messageUc usecase.MessageUsecase
	userUc    usecase.UserUsecase
}

func NewHttpHandler(messageUc usecase.MessageUsecase, userUc usecase.UserUsecase) *HttpHandler {
	return &HttpHandler{
		messageUc: messageUc,
		userUc:    userUc,
	}
}

type Response struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func respond(w http.ResponseWriter, status int, response Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// Method Get /messages/conversations
func (h *HttpHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserIdFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, Response{Message: "authentication required"})
		return
	}

	conversations, err := h.messageUc.ListConversations(r.Context(), userId)
	if err != nil {
		log.Printf("List conversations error: %v", err)
		respond(w, http.StatusInternalServerError, Response{Message: "internal server error"})
		return
	}

	respond(w, http.StatusOK, Response{Message: "success", Data: conversations})
}

// Method Get /messages/{counterpartId}
//
// Opening a conversation acknowledges it: every unread message from the
// counterpart is marked read before the history is returned.
func (h *HttpHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserIdFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, Response{Message: "authentication required"})
		return
	}

	counterpartId := chi.URLParam(r, "counterpartId")

	messages, err := h.messageUc.FetchHistory(r.Context(), userId, counterpartId)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			respond(w, http.StatusNotFound, Response{Message: "user not found"})
			return
		}
		log.Printf("Fetch history error: %v", err)
		respond(w, http.StatusInternalServerError, Response{Message: "internal server error"})
		return
	}

	respond(w, http.StatusOK, Response{Message: "success", Data: messages})
}

// Method Post /messages
func (h *HttpHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserIdFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, Response{Message: "authentication required"})
		return
	}

	var req struct {
		To   string `json:"to"`
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, Response{Message: "invalid request body"})
		return
	}
	if req.To == "" {
		respond(w, http.StatusBadRequest, Response{Message: "recipient id is required"})
		return
	}

	message, err := h.messageUc.Send(r.Context(), userId, req.To, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmptyMessage):
			respond(w, http.StatusBadRequest, Response{Message: "message text is required"})
		case errors.Is(err, usecase.ErrInvalidRecipient):
			respond(w, http.StatusBadRequest, Response{Message: "recipient not found"})
		case errors.Is(err, usecase.ErrUnknownSender):
			respond(w, http.StatusUnauthorized, Response{Message: "authenticated user not found, re-login required"})
		default:
			log.Printf("Send message error: %v", err)
			respond(w, http.StatusInternalServerError, Response{Message: "internal server error"})
		}
		return
	}

	respond(w, http.StatusCreated, Response{Message: "success", Data: message})
}

// Method Put /messages/{messageId}/read
func (h *HttpHandler) MarkMessageRead(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserIdFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, Response{Message: "authentication required"})
		return
	}

	messageId := chi.URLParam(r, "messageId")

	message, err := h.messageUc.MarkRead(r.Context(), userId, messageId)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrMessageNotFound):
			respond(w, http.StatusNotFound, Response{Message: "message not found"})
		case errors.Is(err, usecase.ErrForbidden):
			respond(w, http.StatusForbidden, Response{Message: "you can only mark your received messages as read"})
		default:
			log.Printf("Mark read error: %v", err)
			respond(w, http.StatusInternalServerError, Response{Message: "internal server error"})
		}
		return
	}

	respond(w, http.StatusOK, Response{Message: "success", Data: message})
}

// Method Put /messages/markAsRead/{counterpartId}
func (h *HttpHandler) MarkConversationRead(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserIdFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, Response{Message: "authentication required"})
		return
	}

	counterpartId := chi.URLParam(r, "counterpartId")

	updated, err := h.messageUc.MarkConversationRead(r.Context(), userId, counterpartId)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			respond(w, http.StatusNotFound, Response{Message: "user not found"})
			return
		}
		log.Printf("Mark conversation read error: %v", err)
		respond(w, http.StatusInternalServerError, Response{Message: "internal server error"})
		return
	}

	respond(w, http.StatusOK, Response{Message: "success", Data: map[string]int64{"updatedCount": updated}})
}

// Method Get /messages/unread/count
func (h *HttpHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserIdFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, Response{Message: "authentication required"})
		return
	}

	count, err := h.messageUc.UnreadCount(r.Context(), userId)
	if err != nil {
		log.Printf("Unread count error: %v", err)
		respond(w, http.StatusInternalServerError, Response{Message: "internal server error"})
		return
	}

	respond(w, http.StatusOK, Response{Message: "success", Data: map[string]int64{"unreadCount": count}})
}

// Method Get /users
func (h *HttpHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userUc.Index(r.Context())
	if err != nil {
		log.Printf("List users error: %v", err)
		respond(w, http.StatusInternalServerError, Response{Message: "internal server error"})
		return
	}

	respond(w, http.StatusOK, Response{Message: "success", Data: users})
}

// Method Get /users/{id}
func (h *HttpHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userId := chi.URLParam(r, "id")

	user, err := h.userUc.Get(r.Context(), userId)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			respond(w, http.StatusNotFound, Response{Message: "user not found"})
			return
		}
		log.Printf("Get user error: %v", err)
		respond(w, http.StatusInternalServerError, Response{Message: "internal server error"})
		return
	}

	respond(w, http.StatusOK, Response{Message: "success", Data: user})
}
