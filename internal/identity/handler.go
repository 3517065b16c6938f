package identity

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/bissquit/urbankart/internal/domain"
	"github.com/bissquit/urbankart/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Handler handles HTTP requests for the identity module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new identity handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers public identity routes. The optional
// credentialLimiter middleware throttles the password-carrying endpoints
// without touching token refresh.
func (h *Handler) RegisterRoutes(r chi.Router, credentialLimiter func(http.Handler) http.Handler) {
	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if credentialLimiter != nil {
				r.Use(credentialLimiter)
			}
			r.Post("/signup", h.Signup)
			r.Post("/login", h.Login)
		})
		r.Post("/refresh", h.Refresh)
	})
}

// RegisterProtectedRoutes registers routes that require authentication.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/auth/logout", h.Logout)
	r.Get("/auth/me", h.Me)
}

// RegisterAdminRoutes registers routes that require the admin role.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/admin/users", h.ListUsers)
}

// SignupRequest represents signup request body.
type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// SessionResponse is returned on signup and login.
type SessionResponse struct {
	User         *domain.PublicUser `json:"user"`
	AccessToken  string             `json:"accessToken"`
	RefreshToken string             `json:"refreshToken"`
}

// Signup handles POST /auth/signup.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, httputil.CodeInvalidArgument, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	user, tokens, err := h.service.Register(r.Context(), RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusCreated, SessionResponse{
		User:         user.Public(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

// LoginRequest represents login request body.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, httputil.CodeInvalidArgument, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	user, tokens, err := h.service.Login(r.Context(), LoginInput(req))
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, SessionResponse{
		User:         user.Public(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

// RefreshRequest represents refresh request body.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// RefreshResponse carries the newly issued access token.
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// Refresh handles POST /auth/refresh.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, httputil.CodeInvalidArgument, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.Error(w, http.StatusUnauthorized, httputil.CodeUnauthenticated, "refresh token required")
		return
	}

	accessToken, err := h.service.RefreshAccessToken(r.Context(), req.RefreshToken)
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, RefreshResponse{AccessToken: accessToken})
}

// LogoutRequest represents logout request body.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Logout handles POST /auth/logout. Invalidates only the presented refresh
// token; other sessions of the same user stay active.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var req LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.RefreshToken != "" {
		if err := h.service.Logout(r.Context(), req.RefreshToken); err != nil {
			slog.Warn("logout error", "error", err)
		}
	}

	httputil.Success(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me handles GET /auth/me. Always returns the freshest stored user record,
// so a role change is visible with an old but still valid access token.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r.Context())
	if userID == "" {
		httputil.Error(w, http.StatusUnauthorized, httputil.CodeUnauthenticated, "unauthorized")
		return
	}

	user, err := h.service.GetUserByID(r.Context(), userID)
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, map[string]*domain.PublicUser{"user": user.Public()})
}

// ListUsers handles GET /admin/users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, users)
}

func (h *Handler) handleServiceError(r *http.Request, w http.ResponseWriter, err error) {
	httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
		{Error: ErrUserNotFound, Status: http.StatusForbidden, Code: httputil.CodeForbidden},
		{Error: ErrEmailExists, Status: http.StatusConflict, Code: httputil.CodeConflict},
		{Error: ErrInvalidCredentials, Status: http.StatusUnauthorized, Code: httputil.CodeUnauthenticated},
		{Error: ErrInvalidToken, Status: http.StatusForbidden, Code: httputil.CodeForbidden},
		{Error: ErrTokenExpired, Status: http.StatusForbidden, Code: httputil.CodeForbidden, Message: "refresh token expired, please login again"},
	})
}
