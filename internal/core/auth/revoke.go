package auth

import (
	"context"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Revoker 记录已注销的 token（按 jti），到期后自动失效
type Revoker interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type MemoryRevoker struct{ c *gocache.Cache }

func NewMemoryRevoker() *MemoryRevoker {
	return &MemoryRevoker{c: gocache.New(gocache.NoExpiration, 10*time.Minute)}
}

func (m *MemoryRevoker) Revoke(_ context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	m.c.Set(jti, struct{}{}, ttl)
	return nil
}

func (m *MemoryRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := m.c.Get(jti)
	return ok, nil
}

type RedisRevoker struct {
	RDB    *redis.Client
	Prefix string
}

func NewRedisRevoker(rdb *redis.Client) *RedisRevoker {
	return &RedisRevoker{RDB: rdb, Prefix: "auth:revoked:"}
}

func (r *RedisRevoker) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return r.RDB.Set(ctx, r.Prefix+jti, 1, ttl).Err()
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := r.RDB.Get(ctx, r.Prefix+jti).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	default:
		return false, err
	}
}
