package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/levelup/internal/common"
	"github.com/dmitrijs2005/levelup/internal/logging"
	"github.com/dmitrijs2005/levelup/internal/server/models"
	"github.com/dmitrijs2005/levelup/internal/server/repositories/repomanager"
)

// ProductInput carries the editable catalog fields of a product.
type ProductInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	Stock       int     `json:"stock"`
	Image       string  `json:"image"`
	CategoryID  *int64  `json:"categoryId"`
}

const defaultCurrency = "CLP"

func (in ProductInput) validate() error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return fmt.Errorf("%w: title is required", common.ErrorInvalidInput)
	case in.Price < 0:
		return fmt.Errorf("%w: price must be >= 0", common.ErrorInvalidInput)
	case in.Stock < 0:
		return fmt.Errorf("%w: stock must be >= 0", common.ErrorInvalidInput)
	}
	return nil
}

func (in ProductInput) apply(p *models.Product) {
	p.Title = strings.TrimSpace(in.Title)
	p.Description = in.Description
	p.Price = in.Price
	p.Currency = in.Currency
	if p.Currency == "" {
		p.Currency = defaultCurrency
	}
	p.Stock = in.Stock
	p.Image = in.Image
	p.CategoryID = in.CategoryID
}

type CatalogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewCatalogService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger) *CatalogService {
	return &CatalogService{db: db, repomanager: m, logger: l}
}

// CreateProduct adds an active product. An unknown category yields
// common.ErrorNotFound.
func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p := &models.Product{}
	in.apply(p)

	created, err := s.repomanager.Products(s.db).Create(ctx, p)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "product created", "product_id", created.ID)
	return created, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	return s.repomanager.Products(s.db).GetByID(ctx, id)
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]*models.Product, error) {
	return s.repomanager.Products(s.db).List(ctx, models.ProductFilter{})
}

// ListActiveProducts and ListDiscontinuedProducts partition the catalog.
func (s *CatalogService) ListActiveProducts(ctx context.Context) ([]*models.Product, error) {
	discontinued := false
	return s.repomanager.Products(s.db).List(ctx, models.ProductFilter{Discontinued: &discontinued})
}

func (s *CatalogService) ListDiscontinuedProducts(ctx context.Context) ([]*models.Product, error) {
	discontinued := true
	return s.repomanager.Products(s.db).List(ctx, models.ProductFilter{Discontinued: &discontinued})
}

func (s *CatalogService) ListProductsByCategory(ctx context.Context, categoryID int64) ([]*models.Product, error) {
	return s.repomanager.Products(s.db).List(ctx, models.ProductFilter{CategoryID: &categoryID})
}

// UpdateProduct replaces the editable fields. Discontinued status is left
// to the lifecycle transitions.
func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p := &models.Product{ID: id}
	in.apply(p)
	return s.repomanager.Products(s.db).Update(ctx, p)
}

// DeleteProduct removes the product along with cart lines and favorites
// pointing at it. Products that appear on orders cannot be deleted.
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.repomanager.Products(s.db).Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "product deleted", "product_id", id)
	return nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.repomanager.Products(s.db).ListCategories(ctx)
}

func (s *CatalogService) ListProductTags(ctx context.Context, productID int64) ([]*models.Tag, error) {
	repo := s.repomanager.Products(s.db)
	if _, err := repo.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return repo.ListTags(ctx, productID)
}

func (s *CatalogService) ListProductImages(ctx context.Context, productID int64) ([]*models.ProductImage, error) {
	repo := s.repomanager.Products(s.db)
	if _, err := repo.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return repo.ListImages(ctx, productID)
}
