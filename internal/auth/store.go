package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key prefixes of the token store.
const (
	RefreshTokenPrefix = "refresh_token:"
	MFASetupPrefix     = "mfa_setup:"
)

// TokenStore keeps short lived values with a time to live.
type TokenStore interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Get returns ErrTokenNotFound for unknown or expired keys.
	Get(ctx context.Context, key string) (string, error)
	// Take returns the value and deletes the key in one step, so a value is
	// handed out at most once.
	Take(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// RedisStore is a TokenStore on redis.
type RedisStore struct {
	rdb redis.UniversalClient
}

// NewRedisStore creates a store on rdb.
func NewRedisStore(rdb redis.UniversalClient) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// Set implements TokenStore.
func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	return nil
}

// Get implements TokenStore.
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}

	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}

	return v, nil
}

// Take implements TokenStore with GETDEL.
func (s *RedisStore) Take(ctx context.Context, key string) (string, error) {
	v, err := s.rdb.GetDel(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}

	if err != nil {
		return "", fmt.Errorf("redis getdel %s: %w", key, err)
	}

	return v, nil
}

// Delete implements TokenStore.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}

	return nil
}

type memoryEntry struct {
	value   string
	expires time.Time
}

// MemoryStore is an in-process TokenStore for single instance deployments.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]memoryEntry{}, now: time.Now}
}

// Set implements TokenStore, expired entries are dropped on the way.
func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	for k, e := range s.entries {
		if now.After(e.expires) {
			delete(s.entries, k)
		}
	}

	s.entries[key] = memoryEntry{value: value, expires: now.Add(ttl)}

	return nil
}

// Get implements TokenStore.
func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || s.now().After(e.expires) {
		return "", ErrTokenNotFound
	}

	return e.value, nil
}

// Take implements TokenStore.
func (s *MemoryStore) Take(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return "", ErrTokenNotFound
	}

	delete(s.entries, key)

	if s.now().After(e.expires) {
		return "", ErrTokenNotFound
	}

	return e.value, nil
}

// Delete implements TokenStore.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)

	return nil
}
