package orderwriter

import (
	"context"

	orderwriterv1 "github.com/muhammadchandra19/kairon/internal/domain/order-writer/v1"
	"github.com/muhammadchandra19/kairon/pkg/redis"
)

// RedisWriter appends records to the per-symbol Redis list.
type RedisWriter struct {
	client redis.Client
	config *redis.Config
}

var _ orderwriterv1.OrderWriter = (*RedisWriter)(nil)

// NewRedisWriter creates a new RedisWriter.
func NewRedisWriter(client redis.Client, config *redis.Config) *RedisWriter {
	return &RedisWriter{client: client, config: config}
}

// WriteOrder pushes record to the tail of the queue for symbol.
func (w *RedisWriter) WriteOrder(ctx context.Context, symbol, record string) error {
	_, err := w.client.RPush(ctx, w.config.QueueKey(symbol), record)
	return err
}

// Close is a no-op; the Redis client is owned by the caller.
func (w *RedisWriter) Close() error {
	return nil
}
