package cart

import "errors"

// Sentinel errors returned by the cart service.
var (
	ErrItemNotFound    = errors.New("item not found in cart")
	ErrInvalidQuantity = errors.New("quantity cannot be negative")
)
