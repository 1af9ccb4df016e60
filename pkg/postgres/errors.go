package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// SQLSTATE codes raised when two sessions create the same object.
const (
	sqlStateDuplicateTable  = "42P07"
	sqlStateDuplicateObject = "42710"
	sqlStateUniqueViolation = "23505"
	sqlStateUndefinedTable  = "42P01"
)

// IsDuplicateObject reports whether err means a table, index, extension or
// catalog row already exists. Such errors are expected when two callers
// bootstrap the same schema concurrently.
func IsDuplicateObject(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateDuplicateTable, sqlStateDuplicateObject, sqlStateUniqueViolation:
			return true
		}
	}
	return false
}

// IsUndefinedTable reports whether err is a query against a missing table.
func IsUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == sqlStateUndefinedTable
}
