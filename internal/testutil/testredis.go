package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"tictac-arena/internal/config"

	"github.com/redis/go-redis/v9"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

var (
	redisOnce sync.Once
	redisAddr string
	redisErr  error
)

// OpenTestRedis returns a client on TEST_REDIS_ADDR or a shared container.
// The selected DB is flushed on cleanup.
func OpenTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	cfg, _ := config.LoadTest()
	addr := cfg.TestRedisAddr
	if addr == "" {
		if !cfg.UseContainers {
			t.Skip("skip test redis: TEST_REDIS_ADDR not set and TEST_USE_CONTAINERS disabled")
		}
		redisOnce.Do(func() {
			ctx := context.Background()
			c, err := tcredis.Run(ctx, "redis:7-alpine")
			if err != nil {
				redisErr = err
				return
			}
			redisAddr, redisErr = c.Endpoint(ctx, "")
		})
		if redisErr != nil {
			t.Skipf("skip test redis: %v", redisErr)
		}
		addr = redisAddr
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("skip test redis: ping: %v", err)
	}
	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})
	return client
}
