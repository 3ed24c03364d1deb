package models

import "time"

// CartKey is the composite identity of a cart line.
type CartKey struct {
	UserID    int64 `json:"userId"`
	ProductID int64 `json:"productId"`
}

// CartLine is one row of the carts relation table. Title, Image, Price and
// Currency are read from the product when the line is loaded; they are not
// stored on the line.
type CartLine struct {
	CartKey
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"addedAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Title    string  `json:"title"`
	Image    string  `json:"image"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
}
