package persistence

import "errors"

var (
	// ErrUnknownDriver is returned when the configured audit driver is not supported.
	ErrUnknownDriver = errors.New("persistence: unknown driver")
	// ErrClosed is returned by stores used after Close.
	ErrClosed = errors.New("persistence: store closed")
)
