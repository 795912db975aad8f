package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when a write violates a uniqueness constraint.
	ErrDuplicate = errors.New("entity already exists")

	// ErrReferenced is returned when a delete is blocked by dependent rows.
	ErrReferenced = errors.New("entity is still referenced")

	// ErrOutOfRange is returned when a value does not fit its column.
	ErrOutOfRange = errors.New("value out of range")
)
