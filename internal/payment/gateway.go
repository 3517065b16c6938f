// Package payment defines the boundary contract with the payment provider.
// The core only needs two calls: register an amount to obtain a provider
// order id, and verify a signed payment confirmation.
package payment

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when the provider cannot be reached or
// rejects the call. The caller must abort without partial mutation.
var ErrUnavailable = errors.New("payment gateway unavailable")

// ProviderOrder is the provider-side order created for an amount.
type ProviderOrder struct {
	ID       string  `json:"id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Receipt  string  `json:"receipt"`
}

// Gateway is the payment provider boundary.
type Gateway interface {
	// CreateOrder registers the amount with the provider and returns the
	// provider order id the client completes the payment against.
	CreateOrder(ctx context.Context, amount float64, receipt string) (*ProviderOrder, error)

	// VerifySignature checks a payment confirmation signature for the
	// given provider order and payment ids.
	VerifySignature(providerOrderID, paymentID, signature string) bool
}
