package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/kruthikhak/Care-Connect/internal/application/services"
)

type contextKey string

const claimsKey contextKey = "session_claims"

// Authenticator verifies session tokens
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*services.SessionClaims, error)
}

// Auth reads the session token from the cookie or an Authorization bearer header
type Auth struct {
	auth       Authenticator
	cookieName string
}

// NewAuth creates the session middleware
func NewAuth(auth Authenticator, cookieName string) *Auth {
	return &Auth{auth: auth, cookieName: cookieName}
}

// RequireAuth rejects requests without a valid session
func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := TokenFromRequest(r, a.cookieName)
		if token == "" {
			unauthorized(w, "authentication required")
			return
		}
		claims, err := a.auth.Authenticate(r.Context(), token)
		if err != nil {
			unauthorized(w, "invalid or expired session")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// OptionalAuth attaches the session when one is present and valid
func (a *Auth) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := TokenFromRequest(r, a.cookieName); token != "" {
			if claims, err := a.auth.Authenticate(r.Context(), token); err == nil {
				r = r.WithContext(WithClaims(r.Context(), claims))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// TokenFromRequest returns the session token, preferring the cookie
func TokenFromRequest(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// WithClaims stores session claims in the context
func WithClaims(ctx context.Context, claims *services.SessionClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the session claims, if any
func ClaimsFromContext(ctx context.Context) (*services.SessionClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(*services.SessionClaims)
	return claims, ok && claims != nil
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
