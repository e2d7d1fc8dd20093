package orderwriter

import (
	"context"

	orderwriterv1 "github.com/muhammadchandra19/kairon/internal/domain/order-writer/v1"
	"github.com/muhammadchandra19/kairon/pkg/config"
	"github.com/muhammadchandra19/kairon/pkg/errors"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaWriter produces records to the order topic keyed by symbol, so every
// record of a symbol lands on the same partition.
type KafkaWriter struct {
	writer messageWriter
}

var _ orderwriterv1.OrderWriter = (*KafkaWriter)(nil)

// NewKafkaWriter creates a writer on the order topic.
func NewKafkaWriter(cfg config.KafkaConfig) *KafkaWriter {
	return &KafkaWriter{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(cfg.Brokers...),
			Topic:    cfg.OrderTopic,
			Balancer: &kafka.Hash{},
		},
	}
}

// WriteOrder writes one record.
func (w *KafkaWriter) WriteOrder(ctx context.Context, symbol, record string) error {
	err := w.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(symbol),
		Value: []byte(record),
	})
	if err != nil {
		return errors.NewTracer(errors.KafkaWriteError.String()).Wrap(err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (w *KafkaWriter) Close() error {
	return w.writer.Close()
}
