package repositories

import "errors"

// ErrNotFound is returned when a row does not exist or is not visible to the
// caller (soft-deleted or owned by someone else).
var ErrNotFound = errors.New("record not found")
