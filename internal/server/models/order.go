package models

import "time"

// DefaultOrderStatus is assigned when an order is placed without a status.
const DefaultOrderStatus = "pending"

type Order struct {
	ID        int64       `json:"id"`
	UserID    int64       `json:"userId"`
	Status    string      `json:"status"`
	Total     float64     `json:"total"`
	CreatedAt time.Time   `json:"createdAt"`
	Items     []OrderItem `json:"items"`
}

// OrderItem snapshots quantity and price at order time; later product price
// changes do not affect it.
type OrderItem struct {
	ID        int64   `json:"id"`
	OrderID   int64   `json:"orderId"`
	ProductID int64   `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}
