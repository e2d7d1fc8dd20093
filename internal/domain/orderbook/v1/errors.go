package orderbookv1

import "errors"

var (
	// ErrNilOrder is returned when a nil order is submitted.
	ErrNilOrder = errors.New("order cannot be nil")
	// ErrInvalidOrder is returned for orders that may never rest or trade:
	// non-positive quantity or price, or an unknown side.
	ErrInvalidOrder = errors.New("invalid order")
	// ErrCorruptBook signals a broken book invariant, e.g. an empty price
	// level still linked into a side. It is raised with panic.
	ErrCorruptBook = errors.New("order book invariant violated")
)
