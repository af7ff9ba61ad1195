// Package dedupe suppresses repeated reminders across ticks and worker instances.
package dedupe

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store { return &Store{rdb: rdb, ttl: ttl} }

func key(k string) string { return fmt.Sprintf("rental:reminder:%s", k) }

// Claim returns true for the first caller of k within the TTL and false for everyone
// after it.
func (s *Store) Claim(ctx context.Context, k string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, key(k), "1", s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim %s: %w", k, err)
	}
	return ok, nil
}

// Release drops a claim so a later tick may try again.
func (s *Store) Release(ctx context.Context, k string) error {
	if err := s.rdb.Del(ctx, key(k)).Err(); err != nil {
		return fmt.Errorf("release %s: %w", k, err)
	}
	return nil
}

// Connect opens a client and pings it once.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}
