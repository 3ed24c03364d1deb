package orders

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/levelup/internal/common"
	"github.com/dmitrijs2005/levelup/internal/dbx"
	"github.com/dmitrijs2005/levelup/internal/server/models"
)

const (
	orderColumns = `id, user_id, status, total, created_at`
	itemColumns  = `id, order_id, product_id, quantity, price`
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(row scanner) (*models.Order, error) {
	o := &models.Order{Items: []models.OrderItem{}}
	if err := row.Scan(&o.ID, &o.UserID, &o.Status, &o.Total, &o.CreatedAt); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *PostgresRepository) CreateHeader(ctx context.Context, userID int64, status string, total float64) (*models.Order, error) {
	query := `INSERT INTO orders (user_id, status, total) VALUES ($1, $2, $3) RETURNING ` + orderColumns

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, userID, status, total))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return o, nil
}

func (r *PostgresRepository) AddItem(ctx context.Context, item models.OrderItem) (*models.OrderItem, error) {
	query := `
		INSERT INTO order_items (order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + itemColumns

	it := &models.OrderItem{}
	err := r.db.QueryRowContext(ctx, query, item.OrderID, item.ProductID, item.Quantity, item.Price).
		Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.Price)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return it, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return nil, dbx.Classify(err)
	}

	items, err := r.ListItems(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *PostgresRepository) listOrders(ctx context.Context, query string, args ...any) ([]*models.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	defer rows.Close()

	result := []*models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, dbx.Classify(fmt.Errorf("scan order: %w", err))
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Classify(err)
	}

	if err := r.attachItems(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

// bigintArray renders ids as a PostgreSQL array literal for ANY($1::bigint[]).
func bigintArray(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// attachItems loads the lines of all given orders in one query.
func (r *PostgresRepository) attachItems(ctx context.Context, list []*models.Order) error {
	if len(list) == 0 {
		return nil
	}
	byID := make(map[int64]*models.Order, len(list))
	ids := make([]int64, 0, len(list))
	for _, o := range list {
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}

	query := `SELECT ` + itemColumns + ` FROM order_items WHERE order_id = ANY($1::bigint[]) ORDER BY order_id, id`
	rows, err := r.db.QueryContext(ctx, query, bigintArray(ids))
	if err != nil {
		return dbx.Classify(err)
	}
	defer rows.Close()

	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.Price); err != nil {
			return dbx.Classify(fmt.Errorf("scan order item: %w", err))
		}
		if o, ok := byID[it.OrderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	if err := rows.Err(); err != nil {
		return dbx.Classify(err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Order, error) {
	return r.listOrders(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY id`)
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Order, error) {
	return r.listOrders(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY id`, userID)
}

func (r *PostgresRepository) ListItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.Price); err != nil {
			return nil, dbx.Classify(fmt.Errorf("scan order item: %w", err))
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Classify(err)
	}
	return items, nil
}

// UpdateHeader changes status and total. Items are never touched.
func (r *PostgresRepository) UpdateHeader(ctx context.Context, id int64, status string, total float64) (*models.Order, error) {
	query := `UPDATE orders SET status = $2, total = $3 WHERE id = $1 RETURNING ` + orderColumns

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, id, status, total))
	if err != nil {
		return nil, dbx.Classify(err)
	}

	items, err := r.ListItems(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return dbx.Classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dbx.Classify(err)
	}
	if n == 0 {
		return fmt.Errorf("%w: order %d", common.ErrorNotFound, id)
	}
	return nil
}
