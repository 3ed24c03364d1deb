// Package orders stores order headers and their line items.
package orders

import (
	"context"

	"github.com/dmitrijs2005/levelup/internal/server/models"
)

type Repository interface {
	CreateHeader(ctx context.Context, userID int64, status string, total float64) (*models.Order, error)
	AddItem(ctx context.Context, item models.OrderItem) (*models.OrderItem, error)
	// GetByID returns the header with its items attached.
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	List(ctx context.Context) ([]*models.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Order, error)
	ListItems(ctx context.Context, orderID int64) ([]models.OrderItem, error)
	UpdateHeader(ctx context.Context, id int64, status string, total float64) (*models.Order, error)
	Delete(ctx context.Context, id int64) error
}
