package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
	"github.com/kruthikhak/Care-Connect/internal/domain/providers"
	"github.com/kruthikhak/Care-Connect/internal/domain/repositories"
	"github.com/kruthikhak/Care-Connect/internal/infrastructure/observability"
	apperrors "github.com/kruthikhak/Care-Connect/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// SessionClaims are the claims carried by a session token
type SessionClaims struct {
	Email string            `json:"email"`
	Role  entities.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Session is an issued token and the user it belongs to
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *entities.User
}

// AuthService registers users and issues and verifies session tokens
type AuthService struct {
	users    repositories.UserRepository
	cache    providers.CacheProvider
	secret   []byte
	tokenTTL time.Duration
	cost     int
	now      func() time.Time
}

// NewAuthService creates a new auth service. cache is optional; without it
// logout cannot revoke tokens before they expire.
func NewAuthService(users repositories.UserRepository, cache providers.CacheProvider, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		users:    users,
		cache:    cache,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		cost:     bcrypt.DefaultCost,
		now:      time.Now,
	}
}

// WithBcryptCost overrides the password hashing cost
func (s *AuthService) WithBcryptCost(cost int) *AuthService {
	s.cost = cost
	return s
}

// WithClock replaces the clock used for token timestamps
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// Register creates a patient account and signs it in
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return nil, apperrors.NewValidationError("a valid email address is required")
	}
	if len(password) < minPasswordLength {
		return nil, apperrors.NewValidationError(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	now := s.now().UTC()
	user := &entities.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         entities.UserRolePatient,
		Profile:      entities.DefaultProfile(name),
		LastLoginAt:  &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeConflict) {
			return nil, apperrors.NewConflictError("an account with this email already exists")
		}
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().Str("user_id", user.ID).Msg("user registered")
	return s.issue(user)
}

// Login verifies credentials and issues a new session
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	invalid := apperrors.NewUnauthorizedError("invalid email or password")

	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return nil, invalid
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, invalid
	}

	now := s.now().UTC()
	user.LastLoginAt = &now
	user.UpdatedAt = now
	if err := s.users.Update(ctx, user); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("user_id", user.ID).Msg("failed to record last login")
	}
	return s.issue(user)
}

// Logout revokes the session token until it would have expired anyway
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		// Nothing to revoke.
		return nil
	}
	if s.cache == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	ttl := int(claims.ExpiresAt.Sub(s.now()).Seconds()) + 1
	if ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, revokedTokenKey(claims.ID), []byte("1"), ttl)
}

// Authenticate validates a session token and returns its claims
func (s *AuthService) Authenticate(ctx context.Context, token string) (*SessionClaims, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid or expired session")
	}
	if s.cache != nil && claims.ID != "" {
		revoked, err := s.cache.Exists(ctx, revokedTokenKey(claims.ID))
		if err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Msg("token revocation lookup failed")
		} else if revoked {
			return nil, apperrors.NewUnauthorizedError("session has been revoked")
		}
	}
	return claims, nil
}

// CurrentUser loads the user behind a session
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*entities.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *AuthService) issue(user *entities.User) (*Session, error) {
	now := s.now()
	exp := now.Add(s.tokenTTL)
	claims := SessionClaims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to sign session token", err)
	}
	return &Session{Token: token, ExpiresAt: exp, User: user}, nil
}

func (s *AuthService) parse(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token claims")
}

func revokedTokenKey(jti string) string {
	return "auth:revoked:" + jti
}
