package errors

import "errors"

var (
	ErrNotFound         = errors.New("reservation not found")
	ErrInvalidID        = errors.New("invalid reservation ID format")
	ErrPropertyNotFound = errors.New("property not found")
	ErrLockContended    = errors.New("property lock held by another admission")
)
