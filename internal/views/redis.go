package views

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "view:"

// RedisInvalidator keeps one INCR counter per view key.
type RedisInvalidator struct {
	client redis.UniversalClient
}

func NewRedisInvalidator(client redis.UniversalClient) *RedisInvalidator {
	return &RedisInvalidator{client: client}
}

// Connect parses a redis:// or rediss:// URL and pings the server.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func versionKey(key string) string {
	return keyPrefix + key + ":version"
}

func (r *RedisInvalidator) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	pipe := r.client.Pipeline()
	for _, k := range keys {
		pipe.Incr(ctx, versionKey(k))
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisInvalidator) Version(ctx context.Context, key string) (int64, error) {
	v, err := r.client.Get(ctx, versionKey(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}
