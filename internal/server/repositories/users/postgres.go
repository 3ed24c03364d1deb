package users

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/levelup/internal/common"
	"github.com/dmitrijs2005/levelup/internal/dbx"
	"github.com/dmitrijs2005/levelup/internal/server/models"
)

const userColumns = `id, name, email, credential, is_admin, active, created_at`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*models.User, error) {
	u := &models.User{}
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Credential, &u.IsAdmin, &u.Active, &u.CreatedAt); err != nil {
		return nil, err
	}
	return u, nil
}

// Create relies on the users_email_key constraint for uniqueness; the insert
// and the check are one statement, so concurrent creations cannot both win.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (name, email, credential, is_admin, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, query,
		user.Name, user.Email, user.Credential, user.IsAdmin, user.Active))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return u, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return u, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return u, nil
}

func (r *PostgresRepository) List(ctx context.Context, active *bool) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	var args []any
	if active != nil {
		query += ` WHERE active = $1`
		args = append(args, *active)
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	defer rows.Close()

	result := []*models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, dbx.Classify(fmt.Errorf("scan user: %w", err))
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Classify(err)
	}
	return result, nil
}

// Update overwrites name, email, credential and admin flag. The active flag
// is owned by SetActive.
func (r *PostgresRepository) Update(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		UPDATE users SET name = $2, email = $3, credential = $4, is_admin = $5
		WHERE id = $1
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, query,
		user.ID, user.Name, user.Email, user.Credential, user.IsAdmin))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return u, nil
}

// SetActive writes the flag unconditionally, so repeating a transition is a
// no-op state-wise.
func (r *PostgresRepository) SetActive(ctx context.Context, id int64, active bool) (*models.User, error) {
	query := `UPDATE users SET active = $2 WHERE id = $1 RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id, active))
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return u, nil
}

// Delete removes the user; favorites, cart lines and orders go with it via
// ON DELETE CASCADE.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return dbx.Classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dbx.Classify(fmt.Errorf("rows affected: %w", err))
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
