package repositories

import "errors"

var (
	// ErrNotFound is returned (wrapped) when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey is returned (wrapped) when a unique index rejects a write.
	ErrDuplicateKey = errors.New("duplicate key")
)
