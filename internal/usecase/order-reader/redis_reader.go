package orderreader

import (
	"context"
	"strings"

	orderreaderv1 "github.com/muhammadchandra19/kairon/internal/domain/order-reader/v1"
	"github.com/muhammadchandra19/kairon/pkg/errors"
	"github.com/muhammadchandra19/kairon/pkg/fixedpoint"
	"github.com/muhammadchandra19/kairon/pkg/logger"
	"github.com/muhammadchandra19/kairon/pkg/redis"
)

// RedisReader pops order records from one Redis list per symbol.
type RedisReader struct {
	client redis.Client
	config *redis.Config
	scale  fixedpoint.Scale
	logger *logger.Logger

	keys []string
	next int
}

var _ orderreaderv1.OrderReader = (*RedisReader)(nil)

// NewRedisReader creates a reader over the queues of symbols. It is meant
// for a single ingestion goroutine.
func NewRedisReader(client redis.Client, config *redis.Config, symbols []string, scale fixedpoint.Scale, log *logger.Logger) *RedisReader {
	keys := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		keys = append(keys, config.QueueKey(symbol))
	}

	return &RedisReader{
		client: client,
		config: config,
		scale:  scale,
		logger: log,
		keys:   keys,
	}
}

// ReadOrder blocks on BLPOP until a record arrives or ctx is done.
// BLPOP serves the first non-empty key, so the key order rotates on every
// call to keep one busy symbol from starving the others.
func (r *RedisReader) ReadOrder(ctx context.Context) (*orderreaderv1.PlaceOrderRequest, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		key, value, ok, err := r.client.BLPop(ctx, r.config.PopTimeout, r.rotatedKeys()...)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		symbol := strings.TrimPrefix(key, r.config.OrderQueuePrefix)
		order, err := orderreaderv1.DecodeOrderRecord(value, r.scale)
		if err != nil {
			r.logger.WarnContext(ctx, "Dropping malformed order record",
				logger.NewField("symbol", symbol),
				logger.NewField("record", value),
				logger.NewField("error", err.Error()),
			)
			return nil, errors.NewTracer(errors.MalformedRecordError.String()).Wrap(err)
		}

		return &orderreaderv1.PlaceOrderRequest{
			Symbol: symbol,
			Order:  order,
		}, nil
	}
}

func (r *RedisReader) rotatedKeys() []string {
	if len(r.keys) < 2 {
		return r.keys
	}
	start := r.next % len(r.keys)
	r.next++

	rotated := make([]string, 0, len(r.keys))
	rotated = append(rotated, r.keys[start:]...)
	return append(rotated, r.keys[:start]...)
}

// Close is a no-op; the Redis client is owned by the caller.
func (r *RedisReader) Close() error {
	return nil
}
