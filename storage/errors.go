package storage

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the record store.
var (
	// ErrNotFound is returned when no record matches a lookup.
	ErrNotFound = errors.New("contact not found")

	// ErrAlreadyDeleted is returned when deleting a record that is already in the recycle bin.
	ErrAlreadyDeleted = errors.New("contact already deleted")

	// ErrNotDeleted is returned when restoring a record that is live.
	ErrNotDeleted = errors.New("contact is not deleted")

	// ErrRestoreWindowExpired is returned when a record was deleted too long ago to restore.
	ErrRestoreWindowExpired = errors.New("restore window expired")

	// ErrNameTaken is returned when a live record already owns the name.
	ErrNameTaken = errors.New("name already used by a live contact")

	// ErrCapacityExceeded is returned when a configured record cap is reached.
	ErrCapacityExceeded = errors.New("contact capacity exceeded")
)

// IOError is a persistence failure on a file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
