package favorites

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/levelup/internal/common"
	"github.com/dmitrijs2005/levelup/internal/dbx"
	"github.com/dmitrijs2005/levelup/internal/server/models"
)

const favoriteSelect = `SELECT user_id, product_id, added_at FROM favorites`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]*models.FavoriteLine, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	defer rows.Close()

	result := []*models.FavoriteLine{}
	for rows.Next() {
		f := &models.FavoriteLine{}
		if err := rows.Scan(&f.UserID, &f.ProductID, &f.AddedAt); err != nil {
			return nil, dbx.Classify(fmt.Errorf("scan favorite: %w", err))
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Classify(err)
	}
	return result, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.FavoriteLine, error) {
	return r.query(ctx, favoriteSelect+` ORDER BY user_id, added_at`)
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]*models.FavoriteLine, error) {
	return r.query(ctx, favoriteSelect+` WHERE user_id = $1 ORDER BY added_at`, userID)
}

func (r *PostgresRepository) ListByProduct(ctx context.Context, productID int64) ([]*models.FavoriteLine, error) {
	return r.query(ctx, favoriteSelect+` WHERE product_id = $1 ORDER BY added_at`, productID)
}

func (r *PostgresRepository) Get(ctx context.Context, key models.FavoriteKey) (*models.FavoriteLine, error) {
	f := &models.FavoriteLine{}
	err := r.db.QueryRowContext(ctx, favoriteSelect+` WHERE user_id = $1 AND product_id = $2`, key.UserID, key.ProductID).
		Scan(&f.UserID, &f.ProductID, &f.AddedAt)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return f, nil
}

func (r *PostgresRepository) Add(ctx context.Context, key models.FavoriteKey) (*models.FavoriteLine, error) {
	query := `
		INSERT INTO favorites (user_id, product_id) VALUES ($1, $2)
		ON CONFLICT (user_id, product_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, key.UserID, key.ProductID); err != nil {
		return nil, dbx.Classify(err)
	}
	return r.Get(ctx, key)
}

func (r *PostgresRepository) Delete(ctx context.Context, key models.FavoriteKey) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE user_id = $1 AND product_id = $2`, key.UserID, key.ProductID)
	if err != nil {
		return dbx.Classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dbx.Classify(err)
	}
	if n == 0 {
		return fmt.Errorf("%w: favorite %d/%d", common.ErrorNotFound, key.UserID, key.ProductID)
	}
	return nil
}
