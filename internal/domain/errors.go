package domain

import "errors"

var (
	// ErrNetwork is returned when an outbound request cannot complete
	// (DNS failure, timeout, connection reset)
	ErrNetwork = errors.New("network request failed")

	// ErrBackendRequest is returned when a backend answers with a
	// non-success HTTP status
	ErrBackendRequest = errors.New("backend request failed")

	// ErrResponseFormat is returned when a backend body cannot be parsed
	// into the expected schema
	ErrResponseFormat = errors.New("backend response could not be parsed")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
