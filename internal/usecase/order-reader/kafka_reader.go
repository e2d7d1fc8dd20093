package orderreader

import (
	"context"
	"fmt"

	orderreaderv1 "github.com/muhammadchandra19/kairon/internal/domain/order-reader/v1"
	"github.com/muhammadchandra19/kairon/pkg/config"
	"github.com/muhammadchandra19/kairon/pkg/errors"
	"github.com/muhammadchandra19/kairon/pkg/fixedpoint"
	"github.com/muhammadchandra19/kairon/pkg/logger"
	"github.com/segmentio/kafka-go"
)

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// KafkaReader reads order records from a Kafka topic. The message key is
// the symbol and the value the record.
type KafkaReader struct {
	reader messageReader
	scale  fixedpoint.Scale
	logger *logger.Logger
}

var _ orderreaderv1.OrderReader = (*KafkaReader)(nil)

// NewKafkaReader creates a consumer group reader on the order topic.
func NewKafkaReader(cfg config.KafkaConfig, scale fixedpoint.Scale, log *logger.Logger) *KafkaReader {
	return newKafkaReader(kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.OrderTopic,
		GroupID:     cfg.GroupID,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
	}), scale, log)
}

func newKafkaReader(reader messageReader, scale fixedpoint.Scale, log *logger.Logger) *KafkaReader {
	return &KafkaReader{
		reader: reader,
		scale:  scale,
		logger: log,
	}
}

// ReadOrder reads and decodes the next message.
func (r *KafkaReader) ReadOrder(ctx context.Context) (*orderreaderv1.PlaceOrderRequest, error) {
	msg, err := r.reader.ReadMessage(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.NewTracer(errors.KafkaReadError.String()).Wrap(err)
	}

	symbol := string(msg.Key)
	if symbol == "" {
		return nil, r.malformed(ctx, msg, fmt.Errorf("%w: missing symbol key", orderreaderv1.ErrMalformedRecord))
	}

	order, err := orderreaderv1.DecodeOrderRecord(string(msg.Value), r.scale)
	if err != nil {
		return nil, r.malformed(ctx, msg, err)
	}

	return &orderreaderv1.PlaceOrderRequest{
		Symbol: symbol,
		Order:  order,
		Offset: msg.Offset,
	}, nil
}

func (r *KafkaReader) malformed(ctx context.Context, msg kafka.Message, err error) error {
	r.logger.WarnContext(ctx, "Dropping malformed order record",
		logger.NewField("offset", msg.Offset),
		logger.NewField("partition", msg.Partition),
		logger.NewField("record", string(msg.Value)),
		logger.NewField("error", err.Error()),
	)
	return errors.NewTracer(errors.MalformedRecordError.String()).Wrap(err)
}

// Close properly closes the Kafka reader.
func (r *KafkaReader) Close() error {
	return r.reader.Close()
}
