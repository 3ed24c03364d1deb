package products

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/levelup/internal/common"
	"github.com/dmitrijs2005/levelup/internal/dbx"
	"github.com/dmitrijs2005/levelup/internal/server/models"
)

const productColumns = `id, title, description, price, currency, stock, image, discontinued, category_id, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (*models.Product, error) {
	p := &models.Product{}
	var category sql.NullInt64
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.Currency, &p.Stock,
		&p.Image, &p.Discontinued, &category, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if category.Valid {
		id := category.Int64
		p.CategoryID = &id
	}
	return p, nil
}

func (r *PostgresRepository) queryProducts(ctx context.Context, query string, args ...any) ([]*models.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	defer rows.Close()

	result := []*models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, dbx.Classify(fmt.Errorf("scan product: %w", err))
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Classify(err)
	}
	return result, nil
}

// Create inserts a product. An unknown category id surfaces as
// common.ErrorNotFound through the foreign key.
func (r *PostgresRepository) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	query := `
		INSERT INTO products (title, description, price, currency, stock, image, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + productColumns

	created, err := scanProduct(r.db.QueryRowContext(ctx, query,
		p.Title, p.Description, p.Price, p.Currency, p.Stock, p.Image, p.CategoryID))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return created, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return p, nil
}

func (r *PostgresRepository) GetForShare(ctx context.Context, id int64) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR SHARE`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return p, nil
}

func (r *PostgresRepository) List(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE TRUE`
	var args []any
	if filter.Discontinued != nil {
		args = append(args, *filter.Discontinued)
		query += fmt.Sprintf(` AND discontinued = $%d`, len(args))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		query += fmt.Sprintf(` AND category_id = $%d`, len(args))
	}
	query += ` ORDER BY id`

	return r.queryProducts(ctx, query, args...)
}

// Update overwrites the editable catalog fields and bumps updated_at. The
// discontinued flag is owned by SetDiscontinued.
func (r *PostgresRepository) Update(ctx context.Context, p *models.Product) (*models.Product, error) {
	query := `
		UPDATE products
		SET title = $2, description = $3, price = $4, currency = $5, stock = $6,
			image = $7, category_id = $8, updated_at = now()
		WHERE id = $1
		RETURNING ` + productColumns

	updated, err := scanProduct(r.db.QueryRowContext(ctx, query,
		p.ID, p.Title, p.Description, p.Price, p.Currency, p.Stock, p.Image, p.CategoryID))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return updated, nil
}

func (r *PostgresRepository) SetDiscontinued(ctx context.Context, id int64, discontinued bool) (*models.Product, error) {
	query := `
		UPDATE products SET discontinued = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + productColumns

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id, discontinued))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return p, nil
}

func (r *PostgresRepository) SetImage(ctx context.Context, id int64, image string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE products SET image = $2, updated_at = now() WHERE id = $1`, id, image)
	if err != nil {
		return dbx.Classify(err)
	}
	return expectOneRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: product %d is referenced by orders", common.ErrorConflict, id)
		}
		return dbx.Classify(err)
	}
	return expectOneRow(res)
}

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]*models.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	defer rows.Close()

	result := []*models.Category{}
	for rows.Next() {
		c := &models.Category{}
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, dbx.Classify(err)
		}
		result = append(result, c)
	}
	return result, dbx.Classify(rows.Err())
}

func (r *PostgresRepository) ListTags(ctx context.Context, productID int64) ([]*models.Tag, error) {
	query := `
		SELECT t.id, t.name FROM tags t
		JOIN product_tags pt ON pt.tag_id = t.id
		WHERE pt.product_id = $1
		ORDER BY t.name`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	defer rows.Close()

	result := []*models.Tag{}
	for rows.Next() {
		t := &models.Tag{}
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, dbx.Classify(err)
		}
		result = append(result, t)
	}
	return result, dbx.Classify(rows.Err())
}

func (r *PostgresRepository) AddImage(ctx context.Context, productID int64, storageKey string) (*models.ProductImage, error) {
	query := `
		INSERT INTO product_images (product_id, storage_key) VALUES ($1, $2)
		RETURNING id, product_id, storage_key, created_at`

	img := &models.ProductImage{}
	err := r.db.QueryRowContext(ctx, query, productID, storageKey).
		Scan(&img.ID, &img.ProductID, &img.StorageKey, &img.CreatedAt)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return img, nil
}

func (r *PostgresRepository) ListImages(ctx context.Context, productID int64) ([]*models.ProductImage, error) {
	query := `
		SELECT id, product_id, storage_key, created_at FROM product_images
		WHERE product_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	defer rows.Close()

	result := []*models.ProductImage{}
	for rows.Next() {
		img := &models.ProductImage{}
		if err := rows.Scan(&img.ID, &img.ProductID, &img.StorageKey, &img.CreatedAt); err != nil {
			return nil, dbx.Classify(err)
		}
		result = append(result, img)
	}
	return result, dbx.Classify(rows.Err())
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return dbx.Classify(fmt.Errorf("rows affected: %w", err))
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("%w: unexpected rows affected: %d", common.ErrorStorage, n)
	}
}
