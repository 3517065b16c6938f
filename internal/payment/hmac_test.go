package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder(t *testing.T) {
	gateway := NewHMACGateway("key_id", "key_secret")

	order, err := gateway.CreateOrder(context.Background(), 499.0, "ORD-ABC123")
	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, 499.0, order.Amount)
	assert.Equal(t, "INR", order.Currency)
	assert.Equal(t, "ORD-ABC123", order.Receipt)
}

func TestCreateOrder_MissingCredentials(t *testing.T) {
	gateway := NewHMACGateway("key_id", "")

	_, err := gateway.CreateOrder(context.Background(), 10.0, "ORD-X")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCreateOrder_UniqueIDs(t *testing.T) {
	gateway := NewHMACGateway("key_id", "key_secret")

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		order, err := gateway.CreateOrder(context.Background(), 1.0, "ORD-X")
		require.NoError(t, err)
		assert.False(t, seen[order.ID])
		seen[order.ID] = true
	}
}

func TestVerifySignature(t *testing.T) {
	gateway := NewHMACGateway("key_id", "key_secret")

	mac := hmac.New(sha256.New, []byte("key_secret"))
	mac.Write([]byte("order_abc|pay_def"))
	signature := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, gateway.VerifySignature("order_abc", "pay_def", signature))
	assert.False(t, gateway.VerifySignature("order_abc", "pay_other", signature))
	assert.False(t, gateway.VerifySignature("order_abc", "pay_def", "forged"))
}
