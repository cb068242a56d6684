package redisad

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/benoitgrasset/restoFinderIA/internal/adapters/observability"
)

// Store implements the favorites key-value persistence port on redis.
// Values are opaque JSON blobs and never expire.
type Store struct{ c *redis.Client }

func New(addr, pass string, db int) *Store {
	return &Store{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.c.Get(ctx, key).Result()
	if err == redis.Nil {
		observability.ObserveKV("redis", "miss")
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	observability.ObserveKV("redis", "hit")
	return v, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	observability.ObserveKV("redis", "set")
	return s.c.Set(ctx, key, value, 0).Err()
}
