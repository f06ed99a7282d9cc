package order

import "errors"

var (
	ErrOrderNotFound = errors.New("order not found")
	// ErrConcurrentUpdate is returned by Repository.Update when the stored
	// version no longer matches the version the order was loaded at.
	ErrConcurrentUpdate = errors.New("order was modified concurrently")
)
