package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/levelup/internal/common"
	"github.com/dmitrijs2005/levelup/internal/dbx"
	"github.com/dmitrijs2005/levelup/internal/logging"
	"github.com/dmitrijs2005/levelup/internal/server/models"
	"github.com/dmitrijs2005/levelup/internal/server/repositories/repomanager"
)

type CartService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewCartService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger) *CartService {
	return &CartService{db: db, repomanager: m, logger: l}
}

// requireParties resolves both sides of a relation. Missing rows are
// common.ErrorNotFound; an inactive user or a discontinued product is
// common.ErrorInvalidInput.
func requireParties(ctx context.Context, m repomanager.RepositoryManager, db dbx.DBTX, userID, productID int64) (*models.User, *models.Product, error) {
	u, err := m.Users(db).GetByID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("user %d: %w", userID, err)
	}
	if !u.Active {
		return nil, nil, fmt.Errorf("%w: user %d is inactive", common.ErrorInvalidInput, userID)
	}
	p, err := m.Products(db).GetByID(ctx, productID)
	if err != nil {
		return nil, nil, fmt.Errorf("product %d: %w", productID, err)
	}
	if p.Discontinued {
		return nil, nil, fmt.Errorf("%w: product %d is discontinued", common.ErrorInvalidInput, productID)
	}
	return u, p, nil
}

func validQuantity(q int) error {
	if q < 1 {
		return fmt.Errorf("%w: quantity must be >= 1", common.ErrorInvalidInput)
	}
	return nil
}

// ListCart returns the user's lines with the products' current title,
// image and price.
func (s *CartService) ListCart(ctx context.Context, userID int64) ([]*models.CartLine, error) {
	return s.repomanager.Carts(s.db).ListByUser(ctx, userID)
}

// AddToCart creates the line or adds to its quantity. Concurrent adds for
// the same pair both count.
func (s *CartService) AddToCart(ctx context.Context, userID, productID int64, quantity int) (*models.CartLine, error) {
	if err := validQuantity(quantity); err != nil {
		return nil, err
	}
	if _, _, err := requireParties(ctx, s.repomanager, s.db, userID, productID); err != nil {
		return nil, err
	}
	return s.repomanager.Carts(s.db).Add(ctx, models.CartKey{UserID: userID, ProductID: productID}, quantity)
}

// UpdateQuantity overwrites the quantity of an existing line.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID int64, quantity int) (*models.CartLine, error) {
	if err := validQuantity(quantity); err != nil {
		return nil, err
	}
	return s.repomanager.Carts(s.db).UpdateQuantity(ctx, models.CartKey{UserID: userID, ProductID: productID}, quantity)
}

func (s *CartService) RemoveLine(ctx context.Context, userID, productID int64) error {
	return s.repomanager.Carts(s.db).Delete(ctx, models.CartKey{UserID: userID, ProductID: productID})
}

// ClearCart empties the cart; an empty cart is not an error.
func (s *CartService) ClearCart(ctx context.Context, userID int64) error {
	n, err := s.repomanager.Carts(s.db).DeleteByUser(ctx, userID)
	if err != nil {
		return err
	}
	s.logger.Debug(ctx, "cart cleared", "user_id", userID, "lines", n)
	return nil
}
