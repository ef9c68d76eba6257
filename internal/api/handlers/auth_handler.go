package handlers

import (
	"net/http"
	"time"

	"github.com/kruthikhak/Care-Connect/internal/api/middleware"
	"github.com/kruthikhak/Care-Connect/internal/application/services"
	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
	"github.com/kruthikhak/Care-Connect/pkg/config"
)

// AuthHandler handles registration and sessions
type AuthHandler struct {
	service *services.AuthService
	cfg     config.AuthConfig
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service *services.AuthService, cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{service: service, cfg: cfg}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User      *entities.User `json:"user"`
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload registerRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	session, err := h.service.Register(r.Context(), payload.Email, payload.Password, payload.Name)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	h.setSessionCookie(w, session.Token, session.ExpiresAt)
	respondWithJSON(w, http.StatusCreated, sessionResponse{User: session.User, Token: session.Token, ExpiresAt: session.ExpiresAt})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	session, err := h.service.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	h.setSessionCookie(w, session.Token, session.ExpiresAt)
	respondWithJSON(w, http.StatusOK, sessionResponse{User: session.User, Token: session.Token, ExpiresAt: session.ExpiresAt})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.TokenFromRequest(r, h.cfg.CookieName); token != "" {
		if err := h.service.Logout(r.Context(), token); err != nil {
			respondWithAppError(w, r, err)
			return
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// Status handles GET /api/auth/status
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondWithJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	user, err := h.service.CurrentUser(r.Context(), claims.Subject)
	if err != nil {
		respondWithJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          user,
	})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
