// Package users declares the identity store contract and its PostgreSQL
// implementation.
package users

import (
	"context"

	"github.com/dmitrijs2005/levelup/internal/server/models"
)

type Repository interface {
	// Create inserts a user. A duplicate email yields common.ErrorConflict
	// and leaves the existing row untouched.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// List returns all users, or only those whose active flag equals *active.
	List(ctx context.Context, active *bool) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	SetActive(ctx context.Context, id int64, active bool) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}
