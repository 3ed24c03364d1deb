package carts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/levelup/internal/common"
	"github.com/dmitrijs2005/levelup/internal/dbx"
	"github.com/dmitrijs2005/levelup/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// lineSelect loads a cart line together with the product's current
// presentation fields.
const lineSelect = `
	SELECT c.user_id, c.product_id, c.quantity, c.added_at, c.updated_at,
		p.title, p.image, p.price, p.currency
	FROM carts c
	JOIN products p ON p.id = c.product_id`

type scanner interface {
	Scan(dest ...any) error
}

func scanLine(row scanner) (*models.CartLine, error) {
	l := &models.CartLine{}
	err := row.Scan(&l.UserID, &l.ProductID, &l.Quantity, &l.AddedAt, &l.UpdatedAt,
		&l.Title, &l.Image, &l.Price, &l.Currency)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]*models.CartLine, error) {
	rows, err := r.db.QueryContext(ctx, lineSelect+` WHERE c.user_id = $1 ORDER BY c.added_at, c.product_id`, userID)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	defer rows.Close()

	result := []*models.CartLine{}
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, dbx.Classify(fmt.Errorf("scan cart line: %w", err))
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Classify(err)
	}
	return result, nil
}

// returningLine wraps a data-modifying statement that RETURNs the cart
// columns and joins the product snapshot onto it, so the caller reads the
// row it wrote within the same statement.
func returningLine(mutation string) string {
	return `
		WITH line AS (` + mutation + `
			RETURNING user_id, product_id, quantity, added_at, updated_at)
		SELECT l.user_id, l.product_id, l.quantity, l.added_at, l.updated_at,
			p.title, p.image, p.price, p.currency
		FROM line l
		JOIN products p ON p.id = l.product_id`
}

func (r *PostgresRepository) Add(ctx context.Context, key models.CartKey, quantity int) (*models.CartLine, error) {
	query := returningLine(`
		INSERT INTO carts (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = carts.quantity + EXCLUDED.quantity, updated_at = now()`)

	l, err := scanLine(r.db.QueryRowContext(ctx, query, key.UserID, key.ProductID, quantity))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return l, nil
}

func (r *PostgresRepository) UpdateQuantity(ctx context.Context, key models.CartKey, quantity int) (*models.CartLine, error) {
	query := returningLine(`
		UPDATE carts SET quantity = $3, updated_at = now()
		WHERE user_id = $1 AND product_id = $2`)

	l, err := scanLine(r.db.QueryRowContext(ctx, query, key.UserID, key.ProductID, quantity))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: cart line %d/%d", common.ErrorNotFound, key.UserID, key.ProductID)
		}
		return nil, dbx.Classify(err)
	}
	return l, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, key models.CartKey) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM carts WHERE user_id = $1 AND product_id = $2`, key.UserID, key.ProductID)
	if err != nil {
		return dbx.Classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dbx.Classify(err)
	}
	if n == 0 {
		return fmt.Errorf("%w: cart line %d/%d", common.ErrorNotFound, key.UserID, key.ProductID)
	}
	return nil
}

// DeleteByUser empties a cart and reports how many lines were removed.
func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM carts WHERE user_id = $1`, userID)
	if err != nil {
		return 0, dbx.Classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, dbx.Classify(err)
	}
	return n, nil
}
