// Package ack keeps the set of events a user has already acknowledged, such as
// "the settlement dialog for group X was shown". It lives outside the pricing
// engine and never influences prices or group state.
package ack

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store records acknowledged events per subject.
type Store interface {
	// Acknowledge marks an event as seen. It reports true the first time.
	Acknowledge(ctx context.Context, subject, event string) (bool, error)

	// Seen reports whether an event was already acknowledged.
	Seen(ctx context.Context, subject, event string) (bool, error)
}

// Key builds the storage key of an acknowledgement.
func Key(subject, event string) string {
	return fmt.Sprintf("ack:%s:%s", subject, event)
}

// RedisStore keeps acknowledgements in Redis with a TTL.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore returns a Redis-backed store. A zero ttl keeps keys forever.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Acknowledge(ctx context.Context, subject, event string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, Key(subject, event), "1", s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acknowledge event: %w", err)
	}
	return ok, nil
}

func (s *RedisStore) Seen(ctx context.Context, subject, event string) (bool, error) {
	n, err := s.rdb.Exists(ctx, Key(subject, event)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check event: %w", err)
	}
	return n > 0, nil
}

// MemoryStore is an in-process Store for tests and single-node setups.
type MemoryStore struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{seen: make(map[string]struct{})}
}

func (s *MemoryStore) Acknowledge(_ context.Context, subject, event string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := Key(subject, event)
	if _, ok := s.seen[key]; ok {
		return false, nil
	}
	s.seen[key] = struct{}{}
	return true, nil
}

func (s *MemoryStore) Seen(_ context.Context, subject, event string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.seen[Key(subject, event)]
	return ok, nil
}
