package domain

import "errors"

var (
	// ErrServiceUnavailable: the search call itself failed (network/auth/quota).
	ErrServiceUnavailable = errors.New("search service unavailable")
	// ErrMalformedResponse: the call succeeded but no valid JSON could be
	// extracted from the answer.
	ErrMalformedResponse = errors.New("malformed search response")
	// ErrNoLocationPermission covers denied, unsupported and disabled lookups.
	ErrNoLocationPermission = errors.New("location permission denied or unsupported")
	ErrLocationTimeout      = errors.New("location request timed out")
	// ErrPersistenceCorrupt: the favorites blob could not be decoded at load.
	ErrPersistenceCorrupt = errors.New("favorites blob corrupt")
)
