// Package storage abstracts the durable file store that holds
// uploaded product images.
package storage

import (
	"fmt"
	"io"
)

// Store is the durable file storage contract. Implementations must be
// safe for concurrent use; generated-name uniqueness is the caller's
// concern.
type Store interface {
	// Write stores src under name and returns the number of bytes
	// written. The name must not already exist.
	Write(name string, src io.Reader) (int64, error)

	// Delete removes the file stored under name.
	Delete(name string) error

	// Exists reports whether a file is stored under name.
	Exists(name string) bool
}

// WriteError reports a failed store write.
type WriteError struct {
	Name string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("storage: write %s: %v", e.Name, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// DeleteError reports a failed store delete.
type DeleteError struct {
	Name string
	Err  error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("storage: delete %s: %v", e.Name, e.Err)
}

func (e *DeleteError) Unwrap() error { return e.Err }
