// Package pgerr classifies PostgreSQL errors surfaced through gorm and pgx.
package pgerr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the adapters react to.
const (
	UniqueViolation      = "23505"
	ForeignKeyViolation  = "23503"
	CheckViolation       = "23514"
	SerializationFailure = "40001"
	DeadlockDetected     = "40P01"
	LockNotAvailable     = "55P03"
)

// Code returns the SQLSTATE of err, or "" when err carries no PostgreSQL error.
func Code(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// Is reports whether err carries a PostgreSQL error with the given SQLSTATE.
func Is(err error, code string) bool {
	return Code(err) == code
}

// IsPostgres reports whether err carries any PostgreSQL server error.
func IsPostgres(err error) bool {
	return Code(err) != ""
}

// IsConcurrencyConflict reports serialization failures, deadlocks, lock
// timeouts and connection-level timeouts. Re-running the whole transaction
// may succeed after any of them.
func IsConcurrencyConflict(err error) bool {
	switch Code(err) {
	case SerializationFailure, DeadlockDetected, LockNotAvailable:
		return true
	}
	return pgconn.Timeout(err)
}
