package orders

import (
	"encoding/json"
	"net/http"

	"github.com/bissquit/urbankart/internal/domain"
	"github.com/bissquit/urbankart/internal/payment"
	"github.com/bissquit/urbankart/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Handler handles HTTP requests for the orders module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new orders handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterProtectedRoutes registers routes that require authentication.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.Place)
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Post("/{id}/payment/verify", h.ConfirmPayment)
	})
}

// RegisterAdminRoutes registers routes that require the admin role.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/admin/orders", h.ListAll)
	r.Put("/admin/orders/{id}", h.UpdateStatus)
}

// OrderItemRequest is one cart line in the checkout payload.
type OrderItemRequest struct {
	ProductID string  `json:"productId" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	Price     float64 `json:"price" validate:"gte=0"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
}

// ShippingAddressRequest is the delivery destination in the checkout payload.
type ShippingAddressRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Address  string `json:"address" validate:"required"`
	City     string `json:"city" validate:"required"`
	State    string `json:"state" validate:"required"`
	Pincode  string `json:"pincode" validate:"required"`
}

// PlaceOrderRequest represents the checkout request body.
type PlaceOrderRequest struct {
	Items           []OrderItemRequest     `json:"items" validate:"required,min=1,dive"`
	ShippingAddress ShippingAddressRequest `json:"shippingAddress" validate:"required"`
	PaymentMethod   string                 `json:"paymentMethod" validate:"required,oneof=cod razorpay"`
	TotalAmount     *float64               `json:"totalAmount" validate:"omitempty,gt=0"`
}

// Place handles POST /orders.
func (h *Handler) Place(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, httputil.CodeInvalidArgument, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	items := make([]domain.CartItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, domain.CartItem(item))
	}

	order, err := h.service.Place(r.Context(), PlaceOrderInput{
		UserID:          httputil.GetUserID(r.Context()),
		Items:           items,
		ShippingAddress: domain.ShippingAddress(req.ShippingAddress),
		PaymentMethod:   domain.PaymentMethod(req.PaymentMethod),
		TotalAmount:     req.TotalAmount,
	})
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusCreated, order)
}

// List handles GET /orders.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListForUser(r.Context(), httputil.GetUserID(r.Context()))
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, list)
}

// Get handles GET /orders/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.GetForUser(r.Context(), httputil.GetUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, order)
}

// ConfirmPaymentRequest represents the signed payment confirmation the
// client relays from the payment provider.
type ConfirmPaymentRequest struct {
	PaymentID string `json:"paymentId" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}

// ConfirmPayment handles POST /orders/{id}/payment/verify.
func (h *Handler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req ConfirmPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, httputil.CodeInvalidArgument, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	order, err := h.service.ConfirmPayment(r.Context(),
		httputil.GetUserID(r.Context()), chi.URLParam(r, "id"), req.PaymentID, req.Signature)
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, order)
}

// ListAll handles GET /admin/orders.
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListAll(r.Context())
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, list)
}

// UpdateStatusRequest represents a partial order status update.
type UpdateStatusRequest struct {
	Status        *string `json:"status" validate:"omitempty,oneof=pending confirmed processing shipped delivered cancelled"`
	PaymentStatus *string `json:"paymentStatus" validate:"omitempty,oneof=pending paid"`
}

// UpdateStatus handles PUT /admin/orders/{id}.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, httputil.CodeInvalidArgument, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	var status *domain.OrderStatus
	if req.Status != nil {
		s := domain.OrderStatus(*req.Status)
		status = &s
	}
	var paymentStatus *domain.PaymentStatus
	if req.PaymentStatus != nil {
		s := domain.PaymentStatus(*req.PaymentStatus)
		paymentStatus = &s
	}

	order, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), status, paymentStatus)
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, order)
}

func (h *Handler) handleServiceError(r *http.Request, w http.ResponseWriter, err error) {
	httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
		{Error: ErrOrderNotFound, Status: http.StatusNotFound, Code: httputil.CodeNotFound},
		{Error: ErrEmptyOrder, Status: http.StatusBadRequest, Code: httputil.CodeInvalidArgument},
		{Error: ErrPaymentNotRequired, Status: http.StatusBadRequest, Code: httputil.CodeInvalidArgument},
		{Error: ErrInvalidSignature, Status: http.StatusBadRequest, Code: httputil.CodeInvalidArgument},
		{Error: payment.ErrUnavailable, Status: http.StatusServiceUnavailable, Code: httputil.CodeUnavailable},
	})
}
