package repository

import "errors"

// ErrNotFound is wrapped by every lookup that matched no row.
var ErrNotFound = errors.New("not found")
