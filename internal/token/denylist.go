package token

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const denylistKeyPrefix = "denylist:"

// Denylist tracks revoked token IDs (jti) until their natural expiry.
// Logout and refresh both revoke the presented token through this interface.
type Denylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// redisDenylist stores revoked jtis in Redis with a TTL matching the token's
// remaining lifetime, so entries clean themselves up.
type redisDenylist struct {
	rdb *redis.Client
}

// NewRedisDenylist creates a Denylist backed by the given Redis client.
func NewRedisDenylist(rdb *redis.Client) Denylist {
	return &redisDenylist{rdb: rdb}
}

func (d *redisDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // already expired, nothing to track
	}
	return d.rdb.Set(ctx, denylistKeyPrefix+jti, "1", ttl).Err()
}

func (d *redisDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := d.rdb.Exists(ctx, denylistKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// memoryDenylist is the in-process fallback used when no Redis address is
// configured. Entries expire lazily on lookup.
type memoryDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time // jti -> expiry
}

// NewMemoryDenylist creates an in-memory Denylist.
func NewMemoryDenylist() Denylist {
	return &memoryDenylist{revoked: make(map[string]time.Time)}
}

func (d *memoryDenylist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revoked[jti] = time.Now().Add(ttl)
	return nil
}

func (d *memoryDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	expiry, ok := d.revoked[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		delete(d.revoked, jti)
		return false, nil
	}
	return true, nil
}
