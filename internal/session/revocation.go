package session

import (
	"context"
	"errors"
	"time"

	"file-drive/internal/config"

	"github.com/redis/go-redis/v9"
)

// RevocationList remembers logged-out token ids until they would have
// expired anyway.
type RevocationList interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

func NewRedisClient(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

type RedisRevocationList struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisRevocationList(client *redis.Client) *RedisRevocationList {
	return &RedisRevocationList{client: client, now: time.Now}
}

func (r *RedisRevocationList) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedKeyPrefix+tokenID, revokedValue, ttl).Err()
}

func (r *RedisRevocationList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	_, err := r.client.Get(ctx, revokedKeyPrefix+tokenID).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
