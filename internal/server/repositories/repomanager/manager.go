package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/levelup/internal/dbx"
	"github.com/dmitrijs2005/levelup/internal/server/repositories/carts"
	"github.com/dmitrijs2005/levelup/internal/server/repositories/favorites"
	"github.com/dmitrijs2005/levelup/internal/server/repositories/orders"
	"github.com/dmitrijs2005/levelup/internal/server/repositories/products"
	"github.com/dmitrijs2005/levelup/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound either to the pool or to a
// transaction, so services can compose several stores in one unit of work.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Products(db dbx.DBTX) products.Repository
	Carts(db dbx.DBTX) carts.Repository
	Favorites(db dbx.DBTX) favorites.Repository
	Orders(db dbx.DBTX) orders.Repository
}
