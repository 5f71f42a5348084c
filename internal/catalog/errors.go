package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the targeted product does not exist.
var ErrNotFound = errors.New("product not found")

// ErrDuplicateID is returned when a create collides with a live record
// carrying the same external id.
var ErrDuplicateID = errors.New("product id already exists")

// CleanupError reports that a product was removed but one or more of
// its image files could not be deleted. The record deletion has
// already committed; the leftover files are orphans, not dangling
// references.
type CleanupError struct {
	Err error
}

func (e *CleanupError) Error() string {
	return fmt.Sprintf("product removed, image cleanup failed: %v", e.Err)
}

func (e *CleanupError) Unwrap() error { return e.Err }
