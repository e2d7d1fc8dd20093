package orderreader

import (
	"context"
	stderrors "errors"
	"testing"

	orderreaderv1 "github.com/muhammadchandra19/kairon/internal/domain/order-reader/v1"
	orderbookv1 "github.com/muhammadchandra19/kairon/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/kairon/pkg/fixedpoint"
	"github.com/muhammadchandra19/kairon/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessageReader struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (f *fakeMessageReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if f.err != nil {
		return kafka.Message{}, f.err
	}
	msg := f.messages[0]
	f.messages = f.messages[1:]
	return msg, nil
}

func (f *fakeMessageReader) Close() error {
	f.closed = true
	return nil
}

func TestKafkaReader_ReadOrder(t *testing.T) {
	testCases := []struct {
		name          string
		msg           kafka.Message
		expected      *orderreaderv1.PlaceOrderRequest
		wantMalformed bool
	}{
		{
			name: "valid record",
			msg:  kafka.Message{Key: []byte("ETH"), Value: []byte("5,20000,990000,0"), Offset: 12},
			expected: &orderreaderv1.PlaceOrderRequest{
				Symbol: "ETH",
				Order:  orderbookv1.NewOrder(5, 20000, 990000, orderbookv1.SideSell),
				Offset: 12,
			},
		},
		{
			name:          "missing key",
			msg:           kafka.Message{Value: []byte("5,20000,990000,0")},
			wantMalformed: true,
		},
		{
			name:          "bad value",
			msg:           kafka.Message{Key: []byte("ETH"), Value: []byte("5,x,990000,0")},
			wantMalformed: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fake := &fakeMessageReader{messages: []kafka.Message{tc.msg}}
			reader := newKafkaReader(fake, fixedpoint.DefaultScale, logger.NewNop())

			req, err := reader.ReadOrder(context.Background())
			if tc.wantMalformed {
				assert.ErrorIs(t, err, orderreaderv1.ErrMalformedRecord)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, req)
		})
	}
}

func TestKafkaReader_Errors(t *testing.T) {
	boom := stderrors.New("broker down")
	fake := &fakeMessageReader{err: boom}
	reader := newKafkaReader(fake, fixedpoint.DefaultScale, logger.NewNop())

	_, err := reader.ReadOrder(context.Background())
	assert.ErrorIs(t, err, boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = reader.ReadOrder(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	require.NoError(t, reader.Close())
	assert.True(t, fake.closed)
}
