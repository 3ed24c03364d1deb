package models

import "time"

// FavoriteKey is the composite identity of a favorite.
type FavoriteKey struct {
	UserID    int64 `json:"userId"`
	ProductID int64 `json:"productId"`
}

type FavoriteLine struct {
	FavoriteKey
	AddedAt time.Time `json:"addedAt"`
}
