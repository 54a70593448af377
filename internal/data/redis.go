package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "nii-stress:"

// RedisCache is a Cache shared across processes.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// redisOptions parses addr. rediss:// gets a TLS config; other schemes are rejected.
func redisOptions(addr string) (*redis.Options, error) {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		return nil, fmt.Errorf("can't parse redis url: %w", err)
	}
	return opts, nil
}

type RedisOption func(*RedisCache)

func WithTTL(ttl time.Duration) RedisOption {
	return func(rc *RedisCache) {
		if ttl > 0 {
			rc.ttl = ttl
		}
	}
}

func WithPrefix(prefix string) RedisOption {
	return func(rc *RedisCache) { rc.prefix = prefix }
}

// NewRedisCache connects to a redis:// or rediss:// [:password@]host:port[/db] address and pings it.
func NewRedisCache(addr string, options ...RedisOption) (*RedisCache, error) {
	opts, err := redisOptions(addr)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	rc := &RedisCache{
		client: client,
		ttl:    DefaultCacheTTL,
		prefix: defaultRedisPrefix,
	}
	for _, option := range options {
		option(rc)
	}
	return rc, nil
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return val, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.prefix+key, value, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
