package tests

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/redis/go-redis/v9"
)

var (
	redisOnce sync.Once
	redisURL  string
	redisErr  error
)

// RedisURL returns the URL of a redis server for tests. The server is the one in
// REDIS_URL if set, or a redis container started via dockertest once per test
// binary. Tests sharing the server should use distinct key prefixes.
func RedisURL() (string, error) {
	redisOnce.Do(func() {
		redisURL = os.Getenv("REDIS_URL")
		if redisURL == "" {
			redisURL, redisErr = launchRedis()
		}
	})
	return redisURL, redisErr
}

func launchRedis() (string, error) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return "", fmt.Errorf("creating docker pool: %v", err)
	}
	container, err := pool.Run("redis", "6", nil)
	if err != nil {
		return "", fmt.Errorf("starting redis: %v", err)
	}
	if err := container.Expire(300); err != nil {
		return "", err
	}

	u := "redis://127.0.0.1:" + container.GetPort("6379/tcp") + "/0"
	opts, err := redis.ParseURL(u)
	if err != nil {
		return "", err
	}
	if err := pool.Retry(func() error {
		c := redis.NewClient(opts)
		defer func() { _ = c.Close() }()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		return c.Ping(ctx).Err()
	}); err != nil {
		return "", fmt.Errorf("waiting for redis: %v", err)
	}
	return u, nil
}
