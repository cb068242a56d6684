package app

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/benoitgrasset/restoFinderIA/internal/domain"
)

// FavoritesStore keeps the saved restaurants in insertion order, keyed by ID,
// and mirrors every mutation to an injected key-value store as one JSON blob.
type FavoritesStore struct {
	kv  domain.KVStore
	key string

	mu    sync.Mutex
	items []domain.Restaurant
}

func NewFavoritesStore(kv domain.KVStore, key string) *FavoritesStore {
	return &FavoritesStore{kv: kv, key: key}
}

// Load reads the persisted collection. A missing blob means an empty set; an
// unreadable one is discarded the same way, logged but never surfaced.
func (s *FavoritesStore) Load(ctx context.Context) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		log.Warn().Err(err).Str("key", s.key).Msg("favorites load failed, starting empty")
		return
	}
	if !ok {
		return
	}
	var items []domain.Restaurant
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		log.Warn().Err(domain.ErrPersistenceCorrupt).Str("key", s.key).Str("cause", err.Error()).
			Msg("discarding favorites blob")
		return
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
}

// Toggle removes r when its ID is already saved, appends it otherwise, and
// re-persists the whole collection. Returns whether r ended up favorited.
// Lookup is by ID only, never by list position. A persistence failure is
// logged and swallowed; the in-memory mutation stands.
func (s *FavoritesStore) Toggle(ctx context.Context, r domain.Restaurant) bool {
	s.mu.Lock()
	idx := -1
	for i, f := range s.items {
		if f.ID == r.ID {
			idx = i
			break
		}
	}
	added := idx < 0
	if added {
		s.items = append(s.items, r)
	} else {
		s.items = append(s.items[:idx], s.items[idx+1:]...)
	}
	snapshot := make([]domain.Restaurant, len(s.items))
	copy(snapshot, s.items)
	s.mu.Unlock()

	b, err := json.Marshal(snapshot)
	if err == nil {
		err = s.kv.Set(ctx, s.key, string(b))
	}
	if err != nil {
		log.Warn().Err(err).Str("key", s.key).Msg("favorites persist failed")
	}
	return added
}

// List returns a copy in insertion order.
func (s *FavoritesStore) List() []domain.Restaurant {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Restaurant, len(s.items))
	copy(out, s.items)
	return out
}

func (s *FavoritesStore) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.items {
		if f.ID == id {
			return true
		}
	}
	return false
}

func (s *FavoritesStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
