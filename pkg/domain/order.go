package domain

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// Order is a placed purchase.
type Order struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	UserName    string      `json:"userName"`
	ProductID   string      `json:"productId"`
	ProductName string      `json:"productName"`
	Quantity    int         `json:"quantity"`
	TotalPrice  float64     `json:"totalPrice"`
	Status      OrderStatus `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// OrderRequest is the checkout payload.
type OrderRequest struct {
	ProductID  string  `json:"productId"`
	Quantity   int     `json:"quantity"`
	TotalPrice float64 `json:"totalPrice"`
}

// ClampQuantity keeps an order quantity within 1..stock.
// Returns 1 when stock is exhausted so callers can still show a total.
func ClampQuantity(q, stock int) int {
	if q < 1 {
		return 1
	}
	if stock > 0 && q > stock {
		return stock
	}
	return q
}
