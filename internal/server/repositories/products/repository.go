// Package products declares the catalog store contract (products, categories,
// tags, images) and its PostgreSQL implementation.
package products

import (
	"context"

	"github.com/dmitrijs2005/levelup/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, p *models.Product) (*models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	// GetForShare reads the product and holds a share lock until the end of
	// the surrounding transaction, so it cannot be deleted underneath it.
	GetForShare(ctx context.Context, id int64) (*models.Product, error)
	List(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error)
	Update(ctx context.Context, p *models.Product) (*models.Product, error)
	SetDiscontinued(ctx context.Context, id int64, discontinued bool) (*models.Product, error)
	SetImage(ctx context.Context, id int64, image string) error
	// Delete fails with common.ErrorConflict while order items reference the product.
	Delete(ctx context.Context, id int64) error

	ListCategories(ctx context.Context) ([]*models.Category, error)
	ListTags(ctx context.Context, productID int64) ([]*models.Tag, error)
	AddImage(ctx context.Context, productID int64, storageKey string) (*models.ProductImage, error)
	ListImages(ctx context.Context, productID int64) ([]*models.ProductImage, error)
}
