// Package jwt implements access and refresh token issuance and verification
// using HS256-signed JWTs. The two token kinds are signed with distinct
// secrets so a refresh token can never pass as an access token.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/bissquit/urbankart/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Verification failure modes.
var (
	ErrExpired = errors.New("token expired")
	ErrInvalid = errors.New("invalid token")
)

// Config contains token signing settings.
type Config struct {
	AccessSecret         string
	RefreshSecret        string
	AccessTokenDuration  time.Duration
	RefreshTokenDuration time.Duration
}

// AccessClaims is the access token claim set. The embedded role is a
// snapshot at issuance; authorization decisions must re-read the stored
// role instead of trusting it.
type AccessClaims struct {
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// RefreshClaims is the refresh token claim set.
type RefreshClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Authenticator issues and verifies tokens. Verification is pure: it checks
// signature and expiry only and never touches storage.
type Authenticator struct {
	cfg Config
}

// NewAuthenticator creates a new token authenticator.
func NewAuthenticator(cfg Config) *Authenticator {
	return &Authenticator{cfg: cfg}
}

// GenerateAccessToken issues a short-lived access token for the user.
func (a *Authenticator) GenerateAccessToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.cfg.AccessTokenDuration)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.cfg.AccessSecret))
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return token, nil
}

// GenerateRefreshToken issues a long-lived refresh token for the user and
// returns its expiry so the caller can persist it.
func (a *Authenticator) GenerateRefreshToken(user *domain.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(a.cfg.RefreshTokenDuration)
	claims := RefreshClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.cfg.RefreshSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return token, expiresAt, nil
}

// ParseAccessToken verifies an access token's signature and expiry.
func (a *Authenticator) ParseAccessToken(token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := a.parse(token, claims, a.cfg.AccessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// ParseRefreshToken verifies a refresh token's signature and expiry.
func (a *Authenticator) ParseRefreshToken(token string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := a.parse(token, claims, a.cfg.RefreshSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (a *Authenticator) parse(token string, claims jwt.Claims, secret string) error {
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrExpired
		}
		return fmt.Errorf("%w: %s", ErrInvalid, err)
	}
	return nil
}
