package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"mingle/internal/entity"
	"mingle/internal/usecase"
)

const refreshTokenCookie = "refresh_token"

type AuthHandler struct {
	authUc usecase.AuthUsecase
}

func NewAuthHandler(authUc usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{
		authUc: authUc,
	}
}

// POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req entity.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, Response{Message: "invalid request body"})
		return
	}

	if req.Email == "" || req.Password == "" || req.Username == "" || req.Name == "" {
		respond(w, http.StatusBadRequest, Response{Message: "email, username, password, and name are required"})
		return
	}
	if len(req.Password) < 6 {
		respond(w, http.StatusBadRequest, Response{Message: "password must be at least 6 characters"})
		return
	}
	if len(req.Username) < 3 {
		respond(w, http.StatusBadRequest, Response{Message: "username must be at least 3 characters"})
		return
	}

	authResponse, err := h.authUc.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmailAlreadyTaken):
			respond(w, http.StatusConflict, Response{Message: "email already taken"})
		case errors.Is(err, usecase.ErrUsernameAlreadyTaken):
			respond(w, http.StatusConflict, Response{Message: "username already taken"})
		default:
			log.Printf("Register error: %v", err)
			respond(w, http.StatusInternalServerError, Response{Message: "internal server error"})
		}
		return
	}

	h.setRefreshTokenCookie(w, authResponse.RefreshToken)
	authResponse.RefreshToken = ""

	respond(w, http.StatusCreated, Response{Message: "registration successful", Data: authResponse})
}

// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req entity.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, Response{Message: "invalid request body"})
		return
	}

	if req.Email == "" || req.Password == "" {
		respond(w, http.StatusBadRequest, Response{Message: "email and password are required"})
		return
	}

	authResponse, err := h.authUc.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			respond(w, http.StatusUnauthorized, Response{Message: "invalid email or password"})
			return
		}
		log.Printf("Login error: %v", err)
		respond(w, http.StatusInternalServerError, Response{Message: "internal server error"})
		return
	}

	h.setRefreshTokenCookie(w, authResponse.RefreshToken)
	authResponse.RefreshToken = ""

	respond(w, http.StatusOK, Response{Message: "login successful", Data: authResponse})
}

// POST /auth/refresh
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	token := h.refreshTokenFromRequest(r)
	if token == "" {
		respond(w, http.StatusUnauthorized, Response{Message: "refresh token required"})
		return
	}

	authResponse, err := h.authUc.RefreshToken(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidRefreshToken),
			errors.Is(err, usecase.ErrExpiredRefreshToken),
			errors.Is(err, usecase.ErrRevokedRefreshToken):
			respond(w, http.StatusUnauthorized, Response{Message: "invalid refresh token"})
		default:
			log.Printf("Refresh token error: %v", err)
			respond(w, http.StatusInternalServerError, Response{Message: "internal server error"})
		}
		return
	}

	h.setRefreshTokenCookie(w, authResponse.RefreshToken)
	authResponse.RefreshToken = ""

	respond(w, http.StatusOK, Response{Message: "token refreshed", Data: authResponse})
}

// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.refreshTokenFromRequest(r)
	if token == "" {
		respond(w, http.StatusBadRequest, Response{Message: "refresh token required"})
		return
	}

	if err := h.authUc.Logout(r.Context(), token); err != nil {
		log.Printf("Logout error: %v", err)
		respond(w, http.StatusInternalServerError, Response{Message: "internal server error"})
		return
	}

	h.clearRefreshTokenCookie(w)

	respond(w, http.StatusOK, Response{Message: "logged out"})
}

// POST /auth/logout-all
func (h *AuthHandler) LogoutAllDevices(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserIdFromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, Response{Message: "authentication required"})
		return
	}

	if err := h.authUc.LogoutAllDevices(r.Context(), userId); err != nil {
		log.Printf("Logout all error: %v", err)
		respond(w, http.StatusInternalServerError, Response{Message: "internal server error"})
		return
	}

	h.clearRefreshTokenCookie(w)

	respond(w, http.StatusOK, Response{Message: "logged out from all devices"})
}

// refreshTokenFromRequest prefers the HttpOnly cookie and falls back to the
// body for clients that cannot use cookies.
func (h *AuthHandler) refreshTokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(refreshTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	var req entity.RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return ""
	}
	return req.RefreshToken
}

func (h *AuthHandler) setRefreshTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    token,
		Path:     "/auth",
		Expires:  time.Now().Add(30 * 24 * time.Hour),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearRefreshTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    "",
		Path:     "/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}
