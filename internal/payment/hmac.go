package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// HMACGateway implements the Gateway contract with HMAC-SHA256 signatures
// over "<order_id>|<payment_id>", the convention used by Razorpay. Order
// creation is local; no network call is made.
type HMACGateway struct {
	keyID     string
	keySecret string
}

// NewHMACGateway creates a gateway with the given provider credentials.
func NewHMACGateway(keyID, keySecret string) *HMACGateway {
	return &HMACGateway{keyID: keyID, keySecret: keySecret}
}

// CreateOrder registers the amount and returns a fresh provider order id.
func (g *HMACGateway) CreateOrder(_ context.Context, amount float64, receipt string) (*ProviderOrder, error) {
	if g.keySecret == "" {
		return nil, ErrUnavailable
	}

	return &ProviderOrder{
		ID:       "order_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:14],
		Amount:   amount,
		Currency: "INR",
		Receipt:  receipt,
	}, nil
}

// VerifySignature checks the payment confirmation signature.
func (g *HMACGateway) VerifySignature(providerOrderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(g.keySecret))
	mac.Write([]byte(providerOrderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
