package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/gkgfeed/internal/domain"
)

// pgCodeErrors maps SQLSTATE codes onto domain sentinels.
var pgCodeErrors = map[string]error{
	"23505": domain.ErrAlreadyExists, // unique_violation
	"23503": domain.ErrNotFound,      // foreign_key_violation
	"23514": domain.ErrValidation,    // check_violation
	"23502": domain.ErrValidation,    // not_null_violation
	"22001": domain.ErrValidation,    // string_data_right_truncation
	"22P02": domain.ErrValidation,    // invalid_text_representation
	"22007": domain.ErrValidation,    // invalid_datetime_format
}

// MapError wraps err with the entity and id and translates pgx errors to
// domain sentinels. Context errors and unknown errors are wrapped unchanged.
// id is printed with %v, so both record ids and run UUIDs fit.
func MapError(err error, entity string, id any) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %v: %w", entity, id, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if sentinel, ok := pgCodeErrors[pgErr.Code]; ok {
			return fmt.Errorf("%s %v: %w", entity, id, sentinel)
		}
	}

	return fmt.Errorf("%s %v: %w", entity, id, err)
}
