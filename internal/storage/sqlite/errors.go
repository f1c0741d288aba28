package sqlite

import "errors"

var (
	// ErrInvalidBufferID indicates an empty buffer ID.
	ErrInvalidBufferID = errors.New("invalid buffer ID")
	// ErrBufferNotFound indicates that a buffer cannot be found.
	ErrBufferNotFound = errors.New("buffer not found")
)
