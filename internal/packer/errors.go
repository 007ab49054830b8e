package packer

import "errors"

var (
	// ErrInvalidContainer is returned when a container has a non-positive interior dimension.
	ErrInvalidContainer = errors.New("invalid container")
	// ErrInvalidWeight is returned when an item weight is negative.
	ErrInvalidWeight = errors.New("weight must be a non-negative number")
	// ErrInvalidPoolSize is returned when a pool of fewer than one item is requested.
	ErrInvalidPoolSize = errors.New("pool size must be a positive integer")
)
