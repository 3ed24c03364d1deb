package dbx

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/levelup/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes the repositories care about.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// Classify maps a driver error onto one of the common error kinds while
// keeping the original error in the chain:
//
//	sql.ErrNoRows          -> common.ErrorNotFound
//	unique violation       -> common.ErrorConflict
//	foreign key violation  -> common.ErrorNotFound
//	check violation        -> common.ErrorInvalidInput
//	anything else          -> common.ErrorStorage
//
// Errors already carrying a common kind are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	for _, kind := range []error{
		common.ErrorNotFound, common.ErrorConflict, common.ErrorInvalidInput, common.ErrorStorage,
	} {
		if errors.Is(err, kind) {
			return err
		}
	}

	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", common.ErrorConflict, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", common.ErrorNotFound, pgErr.ConstraintName)
		case pgCheckViolation:
			return fmt.Errorf("%w: %s", common.ErrorInvalidInput, pgErr.ConstraintName)
		}
	}

	return fmt.Errorf("%w: db error: %w", common.ErrorStorage, err)
}

// IsForeignKeyViolation reports whether err is a PostgreSQL foreign key
// violation. Deletes use it to tell "still referenced" apart from a missing row.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}
