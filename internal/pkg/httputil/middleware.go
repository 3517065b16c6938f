package httputil

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/bissquit/urbankart/internal/domain"
)

// CORSMiddleware creates CORS middleware that handles preflight requests
// and adds appropriate CORS headers to responses.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	originsSet := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		originsSet[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if originsSet[origin] || originsSet["*"] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
				w.Header().Set("Access-Control-Max-Age", "86400")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Identity is the authenticated caller attached to the request context.
// Role is always the freshest value read from storage during validation,
// never the one embedded in the token at issuance.
type Identity struct {
	UserID string
	Email  string
	Name   string
	Role   domain.Role
}

type contextKey string

const identityKey contextKey = "identity"

// Token validation failure modes surfaced by TokenValidator implementations.
// An expired token is retryable via refresh (401 + expired flag); a forged
// token or a revoked subject is not (403).
var (
	ErrTokenExpired    = errors.New("token expired")
	ErrTokenInvalid    = errors.New("invalid token")
	ErrIdentityRevoked = errors.New("identity revoked")
)

// TokenValidator verifies an access token and resolves the caller's current
// identity from storage.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*Identity, error)
}

// AuthMiddleware creates authentication middleware.
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				Error(w, http.StatusUnauthorized, CodeUnauthenticated, "access token required")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				Error(w, http.StatusUnauthorized, CodeUnauthenticated, "invalid authorization header format")
				return
			}

			ident, err := validator.ValidateToken(r.Context(), parts[1])
			if err != nil {
				switch {
				case errors.Is(err, ErrTokenExpired):
					TokenExpired(w)
				case errors.Is(err, ErrIdentityRevoked):
					Error(w, http.StatusForbidden, CodeForbidden, "user not found")
				default:
					Error(w, http.StatusForbidden, CodeForbidden, "invalid token")
				}
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin creates RBAC middleware. Must run after AuthMiddleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident := GetIdentity(r.Context())
		if ident == nil {
			Error(w, http.StatusUnauthorized, CodeUnauthenticated, "unauthorized")
			return
		}

		if ident.Role != domain.RoleAdmin {
			Error(w, http.StatusForbidden, CodeForbidden, "admin access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetIdentity extracts the authenticated identity from context.
// Returns nil if the request did not pass AuthMiddleware.
func GetIdentity(ctx context.Context) *Identity {
	if ident, ok := ctx.Value(identityKey).(*Identity); ok {
		return ident
	}
	return nil
}

// GetUserID extracts the authenticated user id from context.
func GetUserID(ctx context.Context) string {
	if ident := GetIdentity(ctx); ident != nil {
		return ident.UserID
	}
	return ""
}
