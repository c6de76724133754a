package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// isUniqueViolation detects the postgres unique-constraint SQLSTATE.
// The unique indexes are the authoritative race resolver; callers turn
// this into the matching business conflict instead of surfacing it raw.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
