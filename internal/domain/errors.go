package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrFilmNotFound indicates the requested film does not exist
	ErrFilmNotFound = errors.New("film not found")

	// ErrEntityNotFound indicates a related character, planet or starship is missing
	ErrEntityNotFound = errors.New("entity not found")

	// ErrSourceOffline indicates the film API is unreachable
	ErrSourceOffline = errors.New("film source is unreachable")

	// ErrInvalidFilmID indicates a malformed film identifier
	ErrInvalidFilmID = errors.New("invalid film id")

	// ErrRateLimited indicates the film API rejected the request rate
	ErrRateLimited = errors.New("film source rate limit exceeded")
)
