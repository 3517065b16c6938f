// Package identity provides user accounts, credentials, and the
// access/refresh token lifecycle.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bissquit/urbankart/internal/domain"
	"github.com/bissquit/urbankart/internal/identity/jwt"
	"github.com/bissquit/urbankart/internal/pkg/ctxlog"
	"github.com/bissquit/urbankart/internal/pkg/httputil"
	"github.com/bissquit/urbankart/internal/pkg/metrics"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// TokenIssuer issues and verifies access and refresh tokens.
type TokenIssuer interface {
	GenerateAccessToken(user *domain.User) (string, error)
	GenerateRefreshToken(user *domain.User) (string, time.Time, error)
	ParseAccessToken(token string) (*jwt.AccessClaims, error)
	ParseRefreshToken(token string) (*jwt.RefreshClaims, error)
}

// TokenPair is an access/refresh token pair returned on signup and login.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Service implements identity business logic.
type Service struct {
	repo   Repository
	tokens TokenIssuer
}

// NewService creates a new identity service.
func NewService(repo Repository, tokens TokenIssuer) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// RegisterInput contains signup data.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a new user account and opens a session.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*domain.User, *TokenPair, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         input.Name,
		Email:        strings.ToLower(input.Email),
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, nil, err
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	ctxlog.FromContext(ctx).Info("user signed up", "email", user.Email)
	return user, tokens, nil
}

// LoginInput contains login credentials.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and opens a new session. Each login adds a
// refresh token without invalidating the user's other sessions.
func (s *Service) Login(ctx context.Context, input LoginInput) (*domain.User, *TokenPair, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(input.Email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			metrics.LoginAttempts.WithLabelValues("failure").Inc()
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	ctxlog.FromContext(ctx).Info("user logged in", "email", user.Email)
	return user, tokens, nil
}

func (s *Service) issueTokens(ctx context.Context, user *domain.User) (*TokenPair, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, expiresAt, err := s.tokens.GenerateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SaveRefreshToken(ctx, &domain.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}); err != nil {
		return nil, fmt.Errorf("save refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// RefreshAccessToken exchanges a valid, persisted refresh token for a new
// access token. The refresh token itself is not rotated: it stays usable
// until logout or natural expiry.
func (s *Service) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	stored, err := s.repo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return "", ErrInvalidToken
		}
		return "", err
	}

	if stored.IsExpired(time.Now()) {
		return "", ErrTokenExpired
	}

	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}

	user, err := s.repo.GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	return s.tokens.GenerateAccessToken(user)
}

// Logout invalidates exactly the presented refresh token. The user's other
// sessions stay valid.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	return s.repo.DeleteRefreshToken(ctx, refreshToken)
}

// GetUserByID returns a user record.
func (s *Service) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// ListUsers returns all users without credential fields.
func (s *Service) ListUsers(ctx context.Context) ([]*domain.PublicUser, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	public := make([]*domain.PublicUser, 0, len(users))
	for i := range users {
		public = append(public, users[i].Public())
	}
	return public, nil
}

// ValidateToken verifies an access token and resolves the caller's current
// identity. The role always comes from the user record, never from the
// token, so a role change takes effect without forcing re-login.
func (s *Service) ValidateToken(ctx context.Context, token string) (*httputil.Identity, error) {
	claims, err := s.tokens.ParseAccessToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrExpired) {
			return nil, httputil.ErrTokenExpired
		}
		return nil, httputil.ErrTokenInvalid
	}

	user, err := s.repo.GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, httputil.ErrIdentityRevoked
		}
		return nil, err
	}

	return &httputil.Identity{
		UserID: user.ID,
		Email:  claims.Email,
		Name:   claims.Name,
		Role:   user.Role,
	}, nil
}

// PurgeExpiredRefreshTokens removes refresh tokens past their expiry.
// Called periodically from the application lifecycle.
func (s *Service) PurgeExpiredRefreshTokens(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpiredRefreshTokens(ctx, time.Now())
}
