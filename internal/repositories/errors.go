package repositories

import "errors"

var (
	// ErrNotFound is returned when no record matches the lookup. Owner-scoped
	// lookups return it for foreign records too, so callers cannot tell the
	// two cases apart.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")
)
