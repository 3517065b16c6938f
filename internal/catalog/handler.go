package catalog

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/bissquit/urbankart/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Handler handles HTTP requests for the catalog module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new catalog handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterPublicRoutes registers routes that need no authentication.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/products", h.ListProducts)
	r.Get("/products/{id}", h.GetProduct)
	r.Get("/products/{id}/reviews", h.ListReviews)
}

// RegisterProtectedRoutes registers routes that require authentication.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/products/{id}/reviews", h.AddReview)
	r.Delete("/products/{productID}/reviews/{reviewID}", h.DeleteReview)
}

// RegisterAdminRoutes registers routes that require the admin role.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/admin/products", h.CreateProduct)
	r.Put("/admin/products/{id}", h.UpdateProduct)
	r.Delete("/admin/products/{id}", h.DeleteProduct)
}

// ListProducts handles GET /products with optional category, search,
// featured, minPrice and maxPrice query filters.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := ProductFilter{
		Search:       q.Get("search"),
		FeaturedOnly: q.Get("featured") == "true",
	}

	if category := q.Get("category"); category != "" && category != "all" {
		filter.Category = category
	}
	if raw := q.Get("minPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			httputil.Error(w, http.StatusBadRequest, httputil.CodeInvalidArgument, "minPrice must be a number")
			return
		}
		filter.MinPrice = &v
	}
	if raw := q.Get("maxPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			httputil.Error(w, http.StatusBadRequest, httputil.CodeInvalidArgument, "maxPrice must be a number")
			return
		}
		filter.MaxPrice = &v
	}

	products, err := h.service.ListProducts(r.Context(), filter)
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, products)
}

// GetProduct handles GET /products/{id}.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, product)
}

// CreateProductRequest represents the request body for creating a product.
type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Category    string  `json:"category" validate:"required"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
	Featured    bool    `json:"featured"`
}

// CreateProduct handles POST /admin/products.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, httputil.CodeInvalidArgument, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), CreateProductInput{
		Name:        req.Name,
		Price:       req.Price,
		Category:    req.Category,
		Image:       req.Image,
		Description: req.Description,
		Featured:    req.Featured,
	})
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusCreated, product)
}

// UpdateProductRequest represents a partial product update. Absent fields
// are left unchanged.
type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	Category    *string  `json:"category"`
	Image       *string  `json:"image"`
	Description *string  `json:"description"`
	Featured    *bool    `json:"featured"`
}

// UpdateProduct handles PUT /admin/products/{id}.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, httputil.CodeInvalidArgument, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), chi.URLParam(r, "id"), UpdateProductInput(req))
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /admin/products/{id}.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.DeleteProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, product)
}

// AddReviewRequest represents the request body for adding a review.
type AddReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required"`
}

// AddReview handles POST /products/{id}/reviews.
func (h *Handler) AddReview(w http.ResponseWriter, r *http.Request) {
	var req AddReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, httputil.CodeInvalidArgument, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	ident := httputil.GetIdentity(r.Context())
	review, err := h.service.AddReview(r.Context(), AddReviewInput{
		ProductID: chi.URLParam(r, "id"),
		UserID:    ident.UserID,
		Author:    ident.Name,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusCreated, review)
}

// ListReviews handles GET /products/{id}/reviews.
func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.ListReviews(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, reviews)
}

// DeleteReview handles DELETE /products/{productID}/reviews/{reviewID}.
func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	ident := httputil.GetIdentity(r.Context())

	err := h.service.DeleteReview(r.Context(),
		chi.URLParam(r, "productID"),
		chi.URLParam(r, "reviewID"),
		ident.UserID,
		ident.Role,
	)
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, map[string]string{"message": "review deleted"})
}

func (h *Handler) handleServiceError(r *http.Request, w http.ResponseWriter, err error) {
	httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
		{Error: ErrProductNotFound, Status: http.StatusNotFound, Code: httputil.CodeNotFound},
		{Error: ErrReviewNotFound, Status: http.StatusNotFound, Code: httputil.CodeNotFound},
		{Error: ErrDuplicateReview, Status: http.StatusConflict, Code: httputil.CodeConflict},
		{Error: ErrReviewForbidden, Status: http.StatusForbidden, Code: httputil.CodeForbidden},
	})
}
