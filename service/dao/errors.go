package dao

import (
	"errors"
	"fmt"
)

// Common, reusable DAO errors.  Using sentinel variables allows callers to
// reliably detect error conditions via errors.Is/As instead of brittle string
// comparisons.

var (
	// ErrNotFound is returned when the requested entity does not exist in the
	// underlying storage.
	ErrNotFound = errors.New("dao: not found")

	// ErrInvalidID indicates that the supplied ID/key is empty or otherwise
	// invalid.
	ErrInvalidID = errors.New("dao: invalid id")

	// ErrNilEntity is returned when the caller attempts to persist a nil
	// pointer.
	ErrNilEntity = errors.New("dao: nil entity")
)

// NotFoundError describes a lookup that matched no record.
type NotFoundError struct {
	Table    string
	Criteria string
}

func (e *NotFoundError) Error() string {
	if e.Criteria == "" {
		return fmt.Sprintf("record not found in table %q", e.Table)
	}
	return fmt.Sprintf("record not found in table %q: %s", e.Table, e.Criteria)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}
