// Package orders converts carts into immutable order records. An order's
// items and total are frozen at creation; only the status fields may change
// afterwards, and only through the admin transition.
package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bissquit/urbankart/internal/domain"
	"github.com/bissquit/urbankart/internal/payment"
	"github.com/bissquit/urbankart/internal/pkg/ctxlog"
	"github.com/bissquit/urbankart/internal/pkg/metrics"
	"github.com/google/uuid"
)

// Service implements order business logic.
type Service struct {
	repo    Repository
	gateway payment.Gateway
}

// NewService creates a new orders service.
func NewService(repo Repository, gateway payment.Gateway) *Service {
	return &Service{repo: repo, gateway: gateway}
}

// PlaceOrderInput contains checkout data. Items are the caller's cart
// snapshot; when TotalAmount is nil it is computed from the items.
type PlaceOrderInput struct {
	UserID          string
	Items           []domain.CartItem
	ShippingAddress domain.ShippingAddress
	PaymentMethod   domain.PaymentMethod
	TotalAmount     *float64
}

// Place creates an order from the input and clears the caller's cart. The
// two mutations are one logical unit: a failed store write leaves the cart
// intact. Non-COD payments are registered with the payment gateway before
// anything is written.
func (s *Service) Place(ctx context.Context, input PlaceOrderInput) (*domain.Order, error) {
	if len(input.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	total := 0.0
	if input.TotalAmount != nil {
		total = *input.TotalAmount
	} else {
		for _, item := range input.Items {
			total += item.Price * float64(item.Quantity)
		}
	}

	now := time.Now()
	order := &domain.Order{
		ID:              newOrderID(),
		UserID:          input.UserID,
		Items:           input.Items,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		TotalAmount:     total,
		Status:          domain.OrderStatusPending,
		PaymentStatus:   domain.PaymentStatusPaid,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if input.PaymentMethod == domain.PaymentMethodCOD {
		order.PaymentStatus = domain.PaymentStatusPending
	} else {
		providerOrder, err := s.gateway.CreateOrder(ctx, total, order.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", payment.ErrUnavailable, err)
		}
		order.ProviderOrderID = providerOrder.ID
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	metrics.OrdersCreated.WithLabelValues(string(order.PaymentMethod)).Inc()
	ctxlog.FromContext(ctx).Info("order created",
		"order_id", order.ID,
		"user_id", order.UserID,
		"total", order.TotalAmount,
	)
	return order, nil
}

// ListForUser returns the caller's orders, newest first.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

// GetForUser returns one of the caller's orders. An order owned by someone
// else is reported as not found so its existence never leaks.
func (s *Service) GetForUser(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ConfirmPayment verifies a signed payment confirmation against the order's
// provider order id and marks the order paid. Orders without a provider
// order id (COD) have no payment to confirm.
func (s *Service) ConfirmPayment(ctx context.Context, userID, orderID, paymentID, signature string) (*domain.Order, error) {
	order, err := s.GetForUser(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	if order.ProviderOrderID == "" {
		return nil, ErrPaymentNotRequired
	}
	if !s.gateway.VerifySignature(order.ProviderOrderID, paymentID, signature) {
		return nil, ErrInvalidSignature
	}

	paid := domain.PaymentStatusPaid
	updated, err := s.repo.UpdateStatus(ctx, order.ID, nil, &paid)
	if err != nil {
		return nil, err
	}

	ctxlog.FromContext(ctx).Info("payment confirmed",
		"order_id", order.ID,
		"payment_id", paymentID,
	)
	return updated, nil
}

// ListAll returns every order, newest first. Admin only.
func (s *Service) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.repo.ListAll(ctx)
}

// UpdateStatus applies a partial status update to an order. Admin only.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, status *domain.OrderStatus, paymentStatus *domain.PaymentStatus) (*domain.Order, error) {
	order, err := s.repo.UpdateStatus(ctx, orderID, status, paymentStatus)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	ctxlog.FromContext(ctx).Info("order updated", "order_id", order.ID, "status", order.Status)
	return order, nil
}

func newOrderID() string {
	return "ORD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}
