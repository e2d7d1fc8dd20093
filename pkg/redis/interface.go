package redis

import (
	"context"
	"time"
)

// Client defines the interface for a Redis client.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=redis_mock
type Client interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Ping(ctx context.Context) error

	// RPush appends values to the tail of the list at key.
	RPush(ctx context.Context, key string, values ...any) (int64, error)
	// BLPop pops from the head of the first non-empty list among keys, waiting
	// up to timeout. It returns the key and the value, or ok=false on timeout.
	BLPop(ctx context.Context, timeout time.Duration, keys ...string) (key, value string, ok bool, err error)

	Publish(ctx context.Context, channel string, message any) (int64, error)
}
