package matchpublisher

import (
	"context"

	matchpublisherv1 "github.com/muhammadchandra19/kairon/internal/domain/match-publisher/v1"
	orderbookv1 "github.com/muhammadchandra19/kairon/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/kairon/pkg/config"
	"github.com/muhammadchandra19/kairon/pkg/fixedpoint"
	"github.com/muhammadchandra19/kairon/pkg/redis"
)

// RedisPublisher publishes each trade as JSON on a Redis pub/sub channel.
type RedisPublisher struct {
	client  redis.Client
	channel string
	scale   fixedpoint.Scale
}

var _ matchpublisherv1.MatchPublisher = (*RedisPublisher)(nil)

// NewRedisPublisher creates a new RedisPublisher.
func NewRedisPublisher(client redis.Client, channel string, scale fixedpoint.Scale) *RedisPublisher {
	return &RedisPublisher{
		client:  client,
		channel: channel,
		scale:   scale,
	}
}

// Name implements MatchPublisher.
func (p *RedisPublisher) Name() string {
	return config.PublisherRedis
}

// PublishTrades publishes trades one message each, stopping at the first error.
func (p *RedisPublisher) PublishTrades(ctx context.Context, trades []orderbookv1.TradeEvent) error {
	for _, trade := range trades {
		msg := matchpublisherv1.NewTradeMessage(trade, p.scale)
		if _, err := p.client.Publish(ctx, p.channel, string(msg.ToBytes())); err != nil {
			return err
		}
	}
	return nil
}
