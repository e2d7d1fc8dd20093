package matchpublisher

import (
	"context"

	matchpublisherv1 "github.com/muhammadchandra19/kairon/internal/domain/match-publisher/v1"
	orderbookv1 "github.com/muhammadchandra19/kairon/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/kairon/pkg/config"
	"github.com/muhammadchandra19/kairon/pkg/errors"
	"github.com/muhammadchandra19/kairon/pkg/fixedpoint"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes trades to the trade topic keyed by symbol.
type KafkaPublisher struct {
	writer messageWriter
	scale  fixedpoint.Scale
}

var _ matchpublisherv1.MatchPublisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher creates a publisher on the trade topic.
func NewKafkaPublisher(cfg config.KafkaConfig, scale fixedpoint.Scale) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Topic:                  cfg.TradeTopic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		},
		scale: scale,
	}
}

// Name implements MatchPublisher.
func (p *KafkaPublisher) Name() string {
	return config.PublisherKafka
}

// PublishTrades writes the whole flush in one batch.
func (p *KafkaPublisher) PublishTrades(ctx context.Context, trades []orderbookv1.TradeEvent) error {
	if len(trades) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(trades))
	for _, trade := range trades {
		msg := matchpublisherv1.NewTradeMessage(trade, p.scale)
		msgs = append(msgs, kafka.Message{
			Key:   []byte(trade.Symbol),
			Value: msg.ToBytes(),
			Time:  trade.Timestamp,
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return errors.NewTracer(errors.KafkaWriteError.String()).Wrap(err)
	}
	return nil
}

// Close flushes pending messages.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
