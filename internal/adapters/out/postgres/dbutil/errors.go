// Package dbutil holds helpers shared by the GORM repositories: error
// classification into the errs taxonomy and dialect-aware row locking.
package dbutil

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"freight/internal/pkg/errs"
)

// PostgreSQL SQLSTATE codes that mean "try again" or "already exists".
const (
	CodeUniqueViolation      = "23505"
	CodeLockNotAvailable     = "55P03"
	CodeSerializationFailure = "40001"
	CodeDeadlockDetected     = "40P01"
)

// IsUniqueViolation reports whether err is a unique index collision on
// PostgreSQL or SQLite.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == CodeUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsContention reports whether err is a lock timeout, serialization failure or
// deadlock.
func IsContention(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case CodeLockNotAvailable, CodeSerializationFailure, CodeDeadlockDetected:
		return true
	}
	return false
}

// Translate maps err to a taxonomy error about resource/id:
//   - record not found becomes ObjectNotFoundError
//   - unique violation becomes ResourceConflictError ("already exists")
//   - lock contention becomes ResourceConflictError ("is busy")
//
// Anything else is returned unchanged.
func Translate(err error, resource string, id any) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.NewObjectNotFoundErrorWithCause(resource, id, err)
	case IsUniqueViolation(err):
		return errs.NewResourceConflictErrorWithCause(resource, id, "already exists", err)
	case IsContention(err):
		return errs.NewResourceConflictErrorWithCause(resource, id, "is busy, try again", err)
	default:
		return err
	}
}
