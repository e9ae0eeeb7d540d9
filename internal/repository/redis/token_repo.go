package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrRedisUnavailable = errors.New("redis unavailable")
	ErrRevokeFailed     = errors.New("token revoke failed")
)

const RevokedTokenPrefix = "auth:token:revoked"

// TokenRepository 已登出 token 的黑名单，key 的过期时间与 token 一致
type TokenRepository struct {
	Client *redis.Client
}

func (r *TokenRepository) key(jti string) string {
	return fmt.Sprintf("%s:%s", RevokedTokenPrefix, jti)
}

// Revoke 将 jti 加入黑名单直到 expiresAt
func (r *TokenRepository) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := r.Client.Set(ctx, r.key(jti), 1, ttl).Err(); err != nil {
		return ErrRevokeFailed
	}
	return nil
}

// IsRevoked 判断 jti 是否已登出
func (r *TokenRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.Client.Exists(ctx, r.key(jti)).Result()
	if err != nil {
		return false, ErrRedisUnavailable
	}
	return n > 0, nil
}
