package repositories

import (
	"errors"
	"fmt"
	"strings"

	"booktank/internal/apperrors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// SQLSTATE codes raised by postgres for constraint violations.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// translateError turns a store error into an application error. Constraint
// violations become conflicts on resource; anything else is infrastructure.
func translateError(resource, op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case isUniqueViolation(err):
		return apperrors.Conflict(resource, "%s already exists", resource)
	case isForeignKeyViolation(err):
		return apperrors.Conflict(resource, "%s references missing or dependent records", resource)
	}
	return apperrors.Infrastructure(fmt.Sprintf("failed to %s %s", op, resource), err)
}
