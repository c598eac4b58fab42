package repositories

import "errors"

// Common repository errors
var (
	ErrNotFound     = errors.New("record not found")
	ErrStaleObject  = errors.New("record was modified concurrently")
	ErrDuplicateKey = errors.New("duplicate key violation")
)
