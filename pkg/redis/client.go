package redis

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/muhammadchandra19/kairon/pkg/errors"
	"github.com/muhammadchandra19/kairon/pkg/logger"
	"github.com/redis/go-redis/v9"
)

type client struct {
	logger *logger.Logger
	config *Config
	rdb    redis.UniversalClient
}

// NewClient creates a new Redis client with the provided logger and configuration.
// Connect must be called before any command.
func NewClient(logger *logger.Logger, config *Config) Client {
	return &client{
		logger: logger,
		config: config,
	}
}

func validate(config *Config) error {
	if config == nil {
		return pkgerrors.NewErrorDetails("Redis config is nil", string(pkgerrors.RedisConfigError), "config")
	}

	switch {
	case len(config.Addrs) == 0:
		return pkgerrors.NewErrorDetails("Redis addresses are empty", string(pkgerrors.RedisConfigError), "addrs")
	case config.Mode != Standalone && config.Mode != Cluster:
		return pkgerrors.NewErrorDetails("Invalid Redis mode", string(pkgerrors.RedisConfigError), "mode")
	case config.ConnectTimeout <= 0:
		return pkgerrors.NewErrorDetails("Invalid Redis connect timeout", string(pkgerrors.RedisConfigError), "connect_timeout")
	case config.PoolSize <= 0:
		return pkgerrors.NewErrorDetails("Invalid Redis pool size", string(pkgerrors.RedisConfigError), "pool_size")
	case config.MaxRetries < 0:
		return pkgerrors.NewErrorDetails("Invalid Redis max retries", string(pkgerrors.RedisConfigError), "max_retries")
	case config.PopTimeout <= 0:
		return pkgerrors.NewErrorDetails("Invalid Redis pop timeout", string(pkgerrors.RedisConfigError), "pop_timeout")
	}

	return nil
}

func (c *client) Connect(ctx context.Context) error {
	if err := validate(c.config); err != nil {
		return err
	}

	switch c.config.Mode {
	case Standalone:
		c.rdb = redis.NewClient(&redis.Options{
			Addr:            c.config.Addrs[0],
			Username:        c.config.Username,
			Password:        c.config.Password,
			DB:              c.config.DB,
			MaxRetries:      c.config.MaxRetries,
			MinRetryBackoff: c.config.MinRetryBackoff,
			MaxRetryBackoff: c.config.MaxRetryBackoff,
			DialTimeout:     c.config.ConnectTimeout,
			ReadTimeout:     c.config.ConnectTimeout,
			WriteTimeout:    c.config.ConnectTimeout,
			PoolSize:        c.config.PoolSize,
			MinIdleConns:    c.config.MinIdleConns,
			ConnMaxIdleTime: c.config.ConnMaxIdleTime,
			PoolTimeout:     c.config.PoolTimeout,
		})
	case Cluster:
		c.rdb = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:           c.config.Addrs,
			Username:        c.config.Username,
			Password:        c.config.Password,
			MaxRetries:      c.config.MaxRetries,
			MinRetryBackoff: c.config.MinRetryBackoff,
			MaxRetryBackoff: c.config.MaxRetryBackoff,
			DialTimeout:     c.config.ConnectTimeout,
			ReadTimeout:     c.config.ConnectTimeout,
			WriteTimeout:    c.config.ConnectTimeout,
			PoolSize:        c.config.PoolSize,
			MinIdleConns:    c.config.MinIdleConns,
			ConnMaxIdleTime: c.config.ConnMaxIdleTime,
			PoolTimeout:     c.config.PoolTimeout,
		})
	}

	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return pkgerrors.NewTracer(pkgerrors.RedisConnectionError.String()).Wrap(err)
	}

	c.logger.Info("Connected to Redis",
		logger.NewField("mode", c.config.Mode),
		logger.NewField("addrs", c.config.Addrs),
	)
	return nil
}

func (c *client) Disconnect(_ context.Context) error {
	if c.rdb == nil {
		return nil
	}
	if err := c.rdb.Close(); err != nil {
		return pkgerrors.NewTracer(pkgerrors.RedisDisconnectionError.String()).Wrap(err)
	}
	return nil
}

func (c *client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return pkgerrors.NewErrorDetails("Failed to ping Redis", string(pkgerrors.RedisPingError), "ping")
	}
	return nil
}

func (c *client) RPush(ctx context.Context, key string, values ...any) (int64, error) {
	length, err := c.rdb.RPush(ctx, key, values...).Result()
	if err != nil {
		return 0, pkgerrors.NewTracer(pkgerrors.RedisPushError.String()).Wrap(err)
	}
	return length, nil
}

func (c *client) BLPop(ctx context.Context, timeout time.Duration, keys ...string) (string, string, bool, error) {
	res, err := c.rdb.BLPop(ctx, timeout, keys...).Result()
	if errors.Is(err, redis.Nil) {
		return "", "", false, nil
	}
	if err != nil {
		return "", "", false, pkgerrors.NewTracer(pkgerrors.RedisPopError.String()).Wrap(err)
	}
	if len(res) != 2 {
		return "", "", false, pkgerrors.NewErrorDetails("Unexpected BLPOP reply", string(pkgerrors.RedisPopError), "blpop")
	}
	return res[0], res[1], true, nil
}

// Publish sends message to channel and returns the number of receivers.
// Having no subscribers is not an error for a broadcast.
func (c *client) Publish(ctx context.Context, channel string, message any) (int64, error) {
	receivers, err := c.rdb.Publish(ctx, channel, message).Result()
	if err != nil {
		return 0, pkgerrors.NewTracer(pkgerrors.RedisPublishError.String()).Wrap(err)
	}
	return receivers, nil
}
