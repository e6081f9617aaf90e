package models

import "errors"

var (
	// ErrNotFound is returned when an entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a unique entity already exists.
	ErrDuplicate = errors.New("already exists")
)
