package remote

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// handlePostgresError turns driver errors into messages that name the failed
// operation, keeping the original error wrapped.
func handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s: duplicate entry (%s): %w", operation, pgErr.ConstraintName, err)
		case "23502": // not_null_violation
			return fmt.Errorf("%s: required field %s is missing: %w", operation, pgErr.ColumnName, err)
		case "42P01", "42883": // undefined_table, undefined_function
			return fmt.Errorf("%s: schema is missing, database migration required: %w", operation, err)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}
