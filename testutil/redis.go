package testutil

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
)

// NewRedis returns a client for TEST_REDIS_ADDR with the selected database
// flushed, so key-count assertions start from zero.
func NewRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	rdb := redis.NewClient(&redis.Options{Addr: lookup(t, envRedisAddr)})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		t.Fatalf("testutil.NewRedis: ping: %v", err)
	}
	if err := rdb.FlushDB(ctx).Err(); err != nil {
		_ = rdb.Close()
		t.Fatalf("testutil.NewRedis: flush: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}
