package http

import (
	"net/http"

	wsDelivery "mingle/internal/delivery/websocket"

	"github.com/go-chi/chi/v5"
)

func MapHttpRoutes(r *chi.Mux, httpHandler *HttpHandler, websocketHandler *wsDelivery.WebsocketHandler, authHandler *AuthHandler, authMiddleware *AuthMiddleware) {
	r.Handle("/ws", http.HandlerFunc(websocketHandler.HandleWebSocket))

	// Auth routes (public)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", http.HandlerFunc(authHandler.Register))
		r.Post("/login", http.HandlerFunc(authHandler.Login))
		r.Post("/refresh", http.HandlerFunc(authHandler.RefreshToken))
		r.Post("/logout", http.HandlerFunc(authHandler.Logout))

		// Protected auth routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Post("/logout-all", http.HandlerFunc(authHandler.LogoutAllDevices))
		})
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		// Messaging routes
		r.Route("/messages", func(r chi.Router) {
			r.Get("/conversations", http.HandlerFunc(httpHandler.ListConversations))
			r.Get("/unread/count", http.HandlerFunc(httpHandler.UnreadCount))
			r.Get("/{counterpartId}", http.HandlerFunc(httpHandler.GetHistory))
			r.Post("/", http.HandlerFunc(httpHandler.SendMessage))
			r.Put("/{messageId}/read", http.HandlerFunc(httpHandler.MarkMessageRead))
			r.Put("/markAsRead/{counterpartId}", http.HandlerFunc(httpHandler.MarkConversationRead))
		})

		// User routes
		r.Route("/users", func(r chi.Router) {
			r.Get("/", http.HandlerFunc(httpHandler.ListUsers))
			r.Get("/{id}", http.HandlerFunc(httpHandler.GetUser))
		})
	})
}
