package models

import "time"

type Product struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	Currency     string    `json:"currency"`
	Stock        int       `json:"stock"`
	Image        string    `json:"image"`
	Discontinued bool      `json:"discontinued"`
	CategoryID   *int64    `json:"categoryId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ProductFilter narrows product listings. Nil fields do not filter.
type ProductFilter struct {
	Discontinued *bool
	CategoryID   *int64
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ProductImage references an object in the image bucket.
type ProductImage struct {
	ID         int64     `json:"id"`
	ProductID  int64     `json:"productId"`
	StorageKey string    `json:"storageKey"`
	CreatedAt  time.Time `json:"createdAt"`
}
