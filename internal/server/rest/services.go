package rest

import (
	"context"

	"github.com/dmitrijs2005/levelup/internal/server/models"
	"github.com/dmitrijs2005/levelup/internal/server/services"
)

// The interfaces below are satisfied by the types in package services.

type UserService interface {
	CreateUser(ctx context.Context, req services.CreateUserRequest) (*models.User, error)
	Register(ctx context.Context, name, email, credential string) (*models.User, error)
	Login(ctx context.Context, email, credential string) (*services.LoginResult, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	ListActiveUsers(ctx context.Context) ([]*models.User, error)
	ListInactiveUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, id int64, req services.UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type CatalogService interface {
	CreateProduct(ctx context.Context, in services.ProductInput) (*models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context) ([]*models.Product, error)
	ListActiveProducts(ctx context.Context) ([]*models.Product, error)
	ListDiscontinuedProducts(ctx context.Context) ([]*models.Product, error)
	ListProductsByCategory(ctx context.Context, categoryID int64) ([]*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, in services.ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	ListCategories(ctx context.Context) ([]*models.Category, error)
	ListProductTags(ctx context.Context, productID int64) ([]*models.Tag, error)
	ListProductImages(ctx context.Context, productID int64) ([]*models.ProductImage, error)
}

type CartService interface {
	ListCart(ctx context.Context, userID int64) ([]*models.CartLine, error)
	AddToCart(ctx context.Context, userID, productID int64, quantity int) (*models.CartLine, error)
	UpdateQuantity(ctx context.Context, userID, productID int64, quantity int) (*models.CartLine, error)
	RemoveLine(ctx context.Context, userID, productID int64) error
	ClearCart(ctx context.Context, userID int64) error
}

type FavoriteService interface {
	ListAll(ctx context.Context) ([]*models.FavoriteLine, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.FavoriteLine, error)
	ListByProduct(ctx context.Context, productID int64) ([]*models.FavoriteLine, error)
	AddFavorite(ctx context.Context, userID, productID int64) (*models.FavoriteLine, error)
	RemoveFavorite(ctx context.Context, userID, productID int64) error
}

type OrderService interface {
	PlaceOrder(ctx context.Context, req services.PlaceOrderRequest) (*models.Order, error)
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	ListOrders(ctx context.Context) ([]*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID int64) ([]*models.Order, error)
	ListOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error)
	UpdateOrder(ctx context.Context, id int64, req services.UpdateOrderRequest) (*models.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
}

type LifecycleService interface {
	DeactivateUser(ctx context.Context, id int64) (*models.User, error)
	ActivateUser(ctx context.Context, id int64) (*models.User, error)
	DiscontinueProduct(ctx context.Context, id int64) (*models.Product, error)
	ReactivateProduct(ctx context.Context, id int64) (*models.Product, error)
}

type ImageService interface {
	PresignUpload(ctx context.Context, productID int64) (*services.ImageUpload, error)
	PresignDownload(ctx context.Context, productID int64) (string, error)
}

// Pinger reports database reachability for /healthz.
type Pinger interface {
	PingContext(ctx context.Context) error
}

var (
	_ UserService      = (*services.UserService)(nil)
	_ CatalogService   = (*services.CatalogService)(nil)
	_ CartService      = (*services.CartService)(nil)
	_ FavoriteService  = (*services.FavoriteService)(nil)
	_ OrderService     = (*services.OrderService)(nil)
	_ LifecycleService = (*services.LifecycleService)(nil)
	_ ImageService     = (*services.ImageService)(nil)
)
