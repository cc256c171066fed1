package videogame

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Sentinel errors for common conditions.
var (
	ErrNotFound   = errors.New("not found")
	ErrDuplicate  = errors.New("duplicate entry")
	ErrInvalidID  = errors.New("invalid identifier")
	ErrInvalidArg = errors.New("invalid argument")
	ErrDatabase   = errors.New("database error")
)

// StoreError provides context for a failed store operation.
type StoreError struct {
	Op   string // Operation that failed (e.g., "insert video game")
	Name string // Game name if applicable
	Err  error  // Underlying error
}

func (e *StoreError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s '%s': %v", e.Op, e.Name, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// WrapDBError converts a database error into a StoreError wrapping one of
// the sentinels above.
func WrapDBError(err error, op, name string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return &StoreError{Op: op, Name: name, Err: fmt.Errorf("%w: %w", ErrNotFound, err)}
	}
	if isUniqueViolation(err) {
		return &StoreError{Op: op, Name: name, Err: fmt.Errorf("%w: name already exists: %w", ErrDuplicate, err)}
	}
	if isConstraintError(err) {
		return &StoreError{Op: op, Name: name, Err: fmt.Errorf("%w: %w", ErrInvalidArg, err)}
	}
	if strings.Contains(err.Error(), "no such table") {
		return &StoreError{Op: op, Name: name, Err: fmt.Errorf("%w: store not initialized: %w", ErrDatabase, err)}
	}

	return &StoreError{Op: op, Name: name, Err: fmt.Errorf("%w: %w", ErrDatabase, err)}
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isConstraintError matches any other constraint failure, e.g. NOT NULL.
func isConstraintError(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	return strings.Contains(err.Error(), "constraint failed")
}
