package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/levelup/internal/logging"
	"github.com/dmitrijs2005/levelup/internal/server/models"
	"github.com/dmitrijs2005/levelup/internal/server/repositories/repomanager"
)

type FavoriteService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewFavoriteService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger) *FavoriteService {
	return &FavoriteService{db: db, repomanager: m, logger: l}
}

func (s *FavoriteService) ListAll(ctx context.Context) ([]*models.FavoriteLine, error) {
	return s.repomanager.Favorites(s.db).List(ctx)
}

func (s *FavoriteService) ListByUser(ctx context.Context, userID int64) ([]*models.FavoriteLine, error) {
	return s.repomanager.Favorites(s.db).ListByUser(ctx, userID)
}

func (s *FavoriteService) ListByProduct(ctx context.Context, productID int64) ([]*models.FavoriteLine, error) {
	return s.repomanager.Favorites(s.db).ListByProduct(ctx, productID)
}

// AddFavorite is idempotent; a repeated add returns the existing line.
func (s *FavoriteService) AddFavorite(ctx context.Context, userID, productID int64) (*models.FavoriteLine, error) {
	if _, _, err := requireParties(ctx, s.repomanager, s.db, userID, productID); err != nil {
		return nil, err
	}
	return s.repomanager.Favorites(s.db).Add(ctx, models.FavoriteKey{UserID: userID, ProductID: productID})
}

func (s *FavoriteService) RemoveFavorite(ctx context.Context, userID, productID int64) error {
	return s.repomanager.Favorites(s.db).Delete(ctx, models.FavoriteKey{UserID: userID, ProductID: productID})
}
