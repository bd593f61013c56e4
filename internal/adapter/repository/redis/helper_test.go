package redis

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
)

// newTestRedisClient runs an in-process miniredis and a client bound to
// it. The miniredis handle is returned for clock control.
func newTestRedisClient(t *testing.T) (*redislib.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{
		Addr: mr.Addr(),
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("miniredis not reachable: %v", err)
	}

	return client, mr
}
