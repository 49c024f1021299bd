package blacklist

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "jwt:blacklist:"

// Store 基于 Redis 的 Token 吊销表，用于登出。
// Key 的 TTL 与 Token 的自然过期时间对齐。
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Revoke 吊销 Token，保留到其自然过期
func (s *Store) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, keyPrefix+token, "1", ttl).Err()
}

// IsRevoked 检查 Token 是否已吊销
func (s *Store) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := s.rdb.Exists(ctx, keyPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
