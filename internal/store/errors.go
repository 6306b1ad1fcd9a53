package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Sentinel errors for callers. All of these are recoverable: handlers map
// them to user-facing responses instead of failing the request hard.
var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicate         = errors.New("record already exists")
	ErrForeignKey        = errors.New("referenced record does not exist or is still referenced")
	ErrInvalidValue      = errors.New("value outside the declared set")
	ErrQuotaExceeded     = errors.New("usage quota exceeded")
	ErrOwnershipMismatch = errors.New("referenced record belongs to a different user")
	ErrInvalidTransition = errors.New("status transition not allowed")
)

// Postgres error codes for constraint classes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// translate maps driver and gorm errors onto the sentinel set so callers
// never see raw database errors.
func translate(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrDuplicate
		case pgForeignKeyViolation:
			return ErrForeignKey
		case pgCheckViolation:
			return ErrInvalidValue
		}
	}

	return err
}
