package domain

// CartItem is a single line in a user's cart. Name, price and image are
// snapshotted from the catalog when the line is created; at most one line
// exists per product id per cart.
type CartItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
}

// Cart holds one user's cart lines in insertion order.
type Cart struct {
	UserID string     `json:"userId"`
	Items  []CartItem `json:"items"`
}
