package postgres

import (
	"errors"

	"devconnector-api/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes
const (
	pgUniqueViolation     = "23505"
	pgInvalidTextSyntax   = "22P02"
	pgForeignKeyViolation = "23503"
)

// mapLookupErr folds "no row" and "id is not a uuid" into domain.ErrNotFound.
func mapLookupErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) || hasCode(err, pgInvalidTextSyntax) {
		return domain.ErrNotFound
	}
	return err
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
