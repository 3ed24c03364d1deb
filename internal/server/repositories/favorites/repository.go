// Package favorites stores the user/product favorite relation.
package favorites

import (
	"context"

	"github.com/dmitrijs2005/levelup/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]*models.FavoriteLine, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.FavoriteLine, error)
	ListByProduct(ctx context.Context, productID int64) ([]*models.FavoriteLine, error)
	// Add is idempotent: adding an existing pair returns the stored line
	// with its original added_at.
	Add(ctx context.Context, key models.FavoriteKey) (*models.FavoriteLine, error)
	Get(ctx context.Context, key models.FavoriteKey) (*models.FavoriteLine, error)
	Delete(ctx context.Context, key models.FavoriteKey) error
}
