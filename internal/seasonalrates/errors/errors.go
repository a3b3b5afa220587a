package errors

import "errors"

var (
	ErrNotFound = errors.New("seasonal rate not found")

	ErrInvalidID = errors.New("invalid seasonal rate ID format")

	ErrRangeOverlap = errors.New("seasonal rate range overlaps an existing active rate")
)
