package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Sentinel error kinds. NotFound, Validation, and InvalidTransition are
// expected conditions the caller can present and retry; Conflict and
// Storage mean the in-flight transaction was rolled back and no changes
// were made.
var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation error")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrConflict          = errors.New("constraint violation")
	ErrStorage           = errors.New("storage failure")
)

// Kind returns a short classification string for an error produced by
// this package, or "" when the error carries no known kind.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrStorage):
		return "storage"
	default:
		return ""
	}
}

// wrap tags err with a sentinel kind and operation context.
func wrap(marker error, operation string, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, operation, err)
	}
	return fmt.Errorf("%w: %s", marker, operation)
}

// classify maps a raw database error onto the sentinel kinds.
func classify(operation string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return wrap(ErrNotFound, operation, nil)
	case isConstraintViolation(err):
		return wrap(ErrConflict, operation, err)
	default:
		return wrap(ErrStorage, operation, err)
	}
}

// SQLite primary result code for constraint violations; extended codes
// (UNIQUE 2067, FOREIGN KEY 787, etc.) share the low byte.
const sqliteConstraintCode = 19

func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code()&0xff == sqliteConstraintCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_CONSTRAINT") || strings.Contains(msg, "constraint failed")
}
