package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	connectAttempts = 5
	connectBackoff  = 500 * time.Millisecond
)

// Open connects to Redis and verifies the connection with a ping.
// Connection establishment is retried with linear backoff; every other
// caller treats the returned client as an always-available capability.
func Open(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	rdb := redis.NewClient(opt)

	var lastErr error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		if lastErr = rdb.Ping(ctx).Err(); lastErr == nil {
			return rdb, nil
		}
		select {
		case <-ctx.Done():
			rdb.Close()
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * connectBackoff):
		}
	}

	rdb.Close()
	return nil, fmt.Errorf("pinging redis after %d attempts: %w", connectAttempts, lastErr)
}
