package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Binding(sessionID string) Binding {
	return &redisBinding{
		client: s.client,
		key:    fmt.Sprintf("checkout:session:%s", sessionID),
		ttl:    s.ttl,
	}
}

type redisBinding struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func (b *redisBinding) Get(ctx context.Context) (uint, error) {
	val, err := b.client.Get(ctx, b.key).Result()
	if err == redis.Nil {
		return 0, ErrNoBinding
	}
	if err != nil {
		return 0, fmt.Errorf("reading session binding: %w", err)
	}

	orderID, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing session binding %q: %w", val, err)
	}

	return uint(orderID), nil
}

func (b *redisBinding) Set(ctx context.Context, orderID uint) error {
	if err := b.client.Set(ctx, b.key, strconv.FormatUint(uint64(orderID), 10), b.ttl).Err(); err != nil {
		return fmt.Errorf("writing session binding: %w", err)
	}
	return nil
}

func (b *redisBinding) Clear(ctx context.Context) error {
	if err := b.client.Del(ctx, b.key).Err(); err != nil {
		return fmt.Errorf("clearing session binding: %w", err)
	}
	return nil
}
