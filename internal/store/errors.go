package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates an operation referenced a non-existent id.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRoute indicates a route had fewer than two vertices at
	// finalize time.
	ErrInvalidRoute = errors.New("route needs at least 2 points")
	// ErrPersistence indicates the backing store failed to read or write.
	// The in-memory collection is rolled back before it is returned.
	ErrPersistence = errors.New("persistence failed")
)

func persistence(err error) error {
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}
