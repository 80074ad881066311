package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cfb_analytics/cfbsync/internal/repository"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces run-status keys
const KeyPrefix = "cfbsync:last_load:"

// Config holds Redis connection settings
type Config struct {
	Addr     string
	Password string
	DB       int
}

// RunStatusCache keeps the last LoadInfo of each sync mode in Redis
type RunStatusCache struct {
	client *redis.Client
}

// NewRunStatusCache connects to Redis and pings it
func NewRunStatusCache(ctx context.Context, cfg Config) (*RunStatusCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return NewRunStatusCacheWithClient(client), nil
}

// NewRunStatusCacheWithClient wraps an existing client
func NewRunStatusCacheWithClient(client *redis.Client) *RunStatusCache {
	return &RunStatusCache{client: client}
}

// Key returns the key holding a mode's last load
func Key(mode string) string {
	return KeyPrefix + mode
}

// SaveLastLoad stores info as the mode's last load
func (c *RunStatusCache) SaveLastLoad(ctx context.Context, mode string, info *repository.LoadInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to encode load info: %w", err)
	}
	return c.client.Set(ctx, Key(mode), data, 0).Err()
}

// LastLoad returns the mode's last load, or nil if none is stored
func (c *RunStatusCache) LastLoad(ctx context.Context, mode string) (*repository.LoadInfo, error) {
	data, err := c.client.Get(ctx, Key(mode)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var info repository.LoadInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to decode load info: %w", err)
	}
	return &info, nil
}

// HealthCheck pings Redis to verify connection
func (c *RunStatusCache) HealthCheck(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (c *RunStatusCache) Close() error {
	return c.client.Close()
}
