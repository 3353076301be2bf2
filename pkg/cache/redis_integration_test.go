//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// Run with: NPUZZLE_TEST_REDIS=localhost:6379 go test -tags integration ./pkg/cache
func TestRedisCache_Integration(t *testing.T) {
	addr := os.Getenv("NPUZZLE_TEST_REDIS")
	if addr == "" {
		t.Skip("NPUZZLE_TEST_REDIS not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, err := NewRedisCache(ctx, RedisOptions{Addr: addr})
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()

	key := NewScopedKeyer(nil, "npuzzle:test:").SolveKey("1 2 3 0", SolveKeyOpts{Strategy: "bfs"})
	defer c.Delete(ctx, key)

	if _, hit, err := c.Get(ctx, key); hit || err != nil {
		t.Fatalf("Get before Set: hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, key, []byte("payload"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "payload" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("key still present after Delete")
	}
}
