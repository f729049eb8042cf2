package service

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Blacklist is the refresh-token revocation set, keyed by jti. Entries
// expire with the token they describe so the set stays bounded.
type Blacklist interface {
	Add(ctx context.Context, jti string, ttl time.Duration) error
	Contains(ctx context.Context, jti string) (bool, error)
}

// RedisBlacklist backs the revocation set with a shared key-value store,
// so a token revoked on one instance is revoked everywhere.
type RedisBlacklist struct {
	Client *redis.Client
	Prefix string
}

func NewRedisBlacklist(client *redis.Client) *RedisBlacklist {
	return &RedisBlacklist{Client: client, Prefix: "revoked"}
}

func (b *RedisBlacklist) key(jti string) string { return b.Prefix + ":" + jti }

func (b *RedisBlacklist) Add(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return b.Client.Set(ctx, b.key(jti), 1, ttl).Err()
}

func (b *RedisBlacklist) Contains(ctx context.Context, jti string) (bool, error) {
	n, err := b.Client.Exists(ctx, b.key(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MemoryBlacklist is a process-local fallback used when no Redis client
// is configured. Entries evict themselves when their TTL elapses. It
// does not survive restarts and does not propagate across instances;
// rotation reuse is still caught by the token_version check.
type MemoryBlacklist struct {
	mu      sync.Mutex
	entries map[string]*time.Timer
}

func NewMemoryBlacklist() *MemoryBlacklist {
	return &MemoryBlacklist{entries: make(map[string]*time.Timer)}
}

func (b *MemoryBlacklist) Add(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.entries[jti]; ok {
		return nil // already revoked
	}
	b.entries[jti] = time.AfterFunc(ttl, func() {
		b.mu.Lock()
		delete(b.entries, jti)
		b.mu.Unlock()
	})
	return nil
}

func (b *MemoryBlacklist) Contains(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.entries[jti]
	return ok, nil
}
