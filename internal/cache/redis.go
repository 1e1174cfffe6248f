package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "nix-prefetch-github:hash:"

// RedisConfig defines connection settings.
type RedisConfig struct {
	Addr     string
	Username string
	Password string
	Database int
}

// Redis shares hashes between machines through a redis server.
type Redis struct {
	client *redis.Client
}

// NewRedis connects and pings the server.
func NewRedis(cfg RedisConfig) (*Redis, error) {
	addr := cfg.Addr
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.Database,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &Redis{client: client}, nil
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, redisKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return v, err
}

// Put stores value without expiry; commit hashes never change.
func (r *Redis) Put(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, redisKeyPrefix+key, value, 0).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
