package cart

import (
	"encoding/json"
	"net/http"

	"github.com/bissquit/urbankart/internal/catalog"
	"github.com/bissquit/urbankart/internal/domain"
	"github.com/bissquit/urbankart/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Handler handles HTTP requests for the cart module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new cart handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers cart routes. All of them require authentication.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Post("/add", h.Add)
		r.Put("/update", h.Update)
		r.Delete("/remove/{productID}", h.Remove)
		r.Delete("/clear", h.Clear)
	})
}

// CartResponse wraps the cart items.
type CartResponse struct {
	Items []domain.CartItem `json:"items"`
}

// Get handles GET /cart.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Get(r.Context(), httputil.GetUserID(r.Context()))
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, CartResponse{Items: items})
}

// AddRequest represents the add-to-cart request body.
type AddRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"omitempty,min=1"`
}

// Add handles POST /cart/add.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, httputil.CodeInvalidArgument, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	items, err := h.service.Add(r.Context(), httputil.GetUserID(r.Context()), req.ProductID, req.Quantity)
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, CartResponse{Items: items})
}

// UpdateRequest represents the update-quantity request body. Quantity zero
// removes the line.
type UpdateRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  *int   `json:"quantity" validate:"required"`
}

// Update handles PUT /cart/update.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, httputil.CodeInvalidArgument, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	items, err := h.service.SetQuantity(r.Context(), httputil.GetUserID(r.Context()), req.ProductID, *req.Quantity)
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, CartResponse{Items: items})
}

// Remove handles DELETE /cart/remove/{productID}.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	items, err := h.service.Remove(r.Context(), httputil.GetUserID(r.Context()), productID)
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, CartResponse{Items: items})
}

// Clear handles DELETE /cart/clear.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context(), httputil.GetUserID(r.Context())); err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, map[string]string{"message": "cart cleared"})
}

func (h *Handler) handleServiceError(r *http.Request, w http.ResponseWriter, err error) {
	httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
		{Error: catalog.ErrProductNotFound, Status: http.StatusNotFound, Code: httputil.CodeNotFound},
		{Error: ErrItemNotFound, Status: http.StatusNotFound, Code: httputil.CodeNotFound},
		{Error: ErrInvalidQuantity, Status: http.StatusBadRequest, Code: httputil.CodeInvalidArgument},
	})
}
