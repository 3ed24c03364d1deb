package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/levelup/internal/logging"
	"github.com/dmitrijs2005/levelup/internal/server/models"
	"github.com/dmitrijs2005/levelup/internal/server/repositories/repomanager"
)

// LifecycleService flips the soft-delete flags on users and products. Each
// transition is a single UPDATE and repeating it leaves the row unchanged.
type LifecycleService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewLifecycleService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger) *LifecycleService {
	return &LifecycleService{db: db, repomanager: m, logger: l}
}

func (s *LifecycleService) setUserActive(ctx context.Context, id int64, active bool) (*models.User, error) {
	u, err := s.repomanager.Users(s.db).SetActive(ctx, id, active)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "user lifecycle", "user_id", id, "active", active)
	return u, nil
}

func (s *LifecycleService) DeactivateUser(ctx context.Context, id int64) (*models.User, error) {
	return s.setUserActive(ctx, id, false)
}

func (s *LifecycleService) ActivateUser(ctx context.Context, id int64) (*models.User, error) {
	return s.setUserActive(ctx, id, true)
}

func (s *LifecycleService) setDiscontinued(ctx context.Context, id int64, discontinued bool) (*models.Product, error) {
	p, err := s.repomanager.Products(s.db).SetDiscontinued(ctx, id, discontinued)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "product lifecycle", "product_id", id, "discontinued", discontinued)
	return p, nil
}

func (s *LifecycleService) DiscontinueProduct(ctx context.Context, id int64) (*models.Product, error) {
	return s.setDiscontinued(ctx, id, true)
}

func (s *LifecycleService) ReactivateProduct(ctx context.Context, id int64) (*models.Product, error) {
	return s.setDiscontinued(ctx, id, false)
}
