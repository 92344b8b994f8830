package ports

import "errors"

var (
	// ErrNotFound means the entity does not exist in the local store.
	ErrNotFound = errors.New("not found")

	// ErrConflict means a uniqueness or state precondition failed.
	ErrConflict = errors.New("conflict")

	// ErrUnavailable means a synchronous lookup to another service failed.
	ErrUnavailable = errors.New("service unavailable")
)
