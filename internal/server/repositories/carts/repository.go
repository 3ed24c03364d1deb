// Package carts stores cart lines keyed by (user, product).
package carts

import (
	"context"

	"github.com/dmitrijs2005/levelup/internal/server/models"
)

type Repository interface {
	ListByUser(ctx context.Context, userID int64) ([]*models.CartLine, error)
	// Add inserts a line or adds quantity to the existing one in a single
	// statement. The original added_at is kept on merge.
	Add(ctx context.Context, key models.CartKey, quantity int) (*models.CartLine, error)
	UpdateQuantity(ctx context.Context, key models.CartKey, quantity int) (*models.CartLine, error)
	Delete(ctx context.Context, key models.CartKey) error
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
}
