package orders

import "errors"

// Sentinel errors returned by the orders service.
var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrEmptyOrder         = errors.New("cart is empty")
	ErrPaymentNotRequired = errors.New("order has no online payment to confirm")
	ErrInvalidSignature   = errors.New("payment signature mismatch")
)
