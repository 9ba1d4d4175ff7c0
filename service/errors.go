package services

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuery marks a search rejected before any I/O.
	ErrInvalidQuery = errors.New("invalid search query")
	// ErrLocationNotResolved marks an address the geocoder could not place.
	ErrLocationNotResolved = errors.New("location not resolved")
	// ErrProviderUnavailable marks a failure of the geocoder or the spatial store.
	ErrProviderUnavailable = errors.New("provider unavailable")
)

// QueryError names the offending query field.
type QueryError struct {
	Field  string
	Reason string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("invalid search query: %s %s", e.Field, e.Reason)
}

func (e *QueryError) Is(target error) bool {
	return target == ErrInvalidQuery
}

// LocationError reports the address that could not be resolved. Err is nil when the
// geocoder answered with no candidates.
type LocationError struct {
	Address string
	Err     error
}

func (e *LocationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("location not resolved: %q", e.Address)
	}
	return fmt.Sprintf("location not resolved: %q: %v", e.Address, e.Err)
}

func (e *LocationError) Is(target error) bool {
	return target == ErrLocationNotResolved
}

func (e *LocationError) Unwrap() error {
	return e.Err
}

func providerUnavailable(what string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrProviderUnavailable, what, err)
}
