package domain

import "context"

// SearchClient calls the generative search service and returns its raw text
// answer. The answer is expected to contain a JSON array of restaurants,
// possibly wrapped in prose and a fenced code block; callers parse it.
type SearchClient interface {
	Search(ctx context.Context, q SearchQuery) (string, error)
}

// LocationProvider resolves the current device position. Implementations
// apply a bounded wait and report ErrNoLocationPermission or
// ErrLocationTimeout as typed failures.
type LocationProvider interface {
	Locate(ctx context.Context) (Coords, error)
}

// KVStore is the persistence port for the favorites blob.
type KVStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}
