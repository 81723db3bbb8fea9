package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenRepo remembers revoked session tokens by their jti until they
// would have expired anyway.
type TokenRepo interface {
	Revoke(ctx context.Context, jti string, exp time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisTokenRepo keeps revocations as expiring redis keys so that every
// server instance sees them.
type RedisTokenRepo struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisTokenRepo(rdb *redis.Client, prefix string) *RedisTokenRepo {
	return &RedisTokenRepo{rdb: rdb, prefix: prefix + "revoked:"}
}

// Revoke marks jti as revoked. Tokens already past exp are ignored.
func (r *RedisTokenRepo) Revoke(ctx context.Context, jti string, exp time.Time) error {
	ttl := time.Until(exp)
	if ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, r.prefix+jti, 1, ttl).Err()
}

func (r *RedisTokenRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := r.rdb.Get(ctx, r.prefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MemoryTokenRepo is the single-process TokenRepo.
type MemoryTokenRepo struct {
	mu      sync.Mutex
	now     func() time.Time
	revoked map[string]time.Time
}

func NewMemoryTokenRepo() *MemoryTokenRepo {
	return &MemoryTokenRepo{now: time.Now, revoked: map[string]time.Time{}}
}

func (r *MemoryTokenRepo) Revoke(_ context.Context, jti string, exp time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for id, until := range r.revoked {
		if !until.After(now) {
			delete(r.revoked, id)
		}
	}
	if exp.After(now) {
		r.revoked[jti] = exp
	}
	return nil
}

func (r *MemoryTokenRepo) IsRevoked(_ context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	until, ok := r.revoked[jti]
	return ok && until.After(r.now()), nil
}
