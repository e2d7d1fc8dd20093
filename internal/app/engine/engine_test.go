package engine

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	matchpublisherv1 "github.com/muhammadchandra19/kairon/internal/domain/match-publisher/v1"
	matchpublisherv1_mock "github.com/muhammadchandra19/kairon/internal/domain/match-publisher/v1/mock"
	orderreaderv1 "github.com/muhammadchandra19/kairon/internal/domain/order-reader/v1"
	orderreaderv1_mock "github.com/muhammadchandra19/kairon/internal/domain/order-reader/v1/mock"
	orderbookv1 "github.com/muhammadchandra19/kairon/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/kairon/internal/usecase/exchange"
	"github.com/muhammadchandra19/kairon/pkg/fixedpoint"
	"github.com/muhammadchandra19/kairon/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testFixture struct {
	ctrl          *gomock.Controller
	exchange      *exchange.Exchange
	mockReader    *orderreaderv1_mock.MockOrderReader
	mockPublisher *matchpublisherv1_mock.MockMatchPublisher
	engine        *Engine
}

func setupTest(t *testing.T) *testFixture {
	ctrl := gomock.NewController(t)
	f := &testFixture{
		ctrl:          ctrl,
		exchange:      exchange.NewExchange(),
		mockReader:    orderreaderv1_mock.NewMockOrderReader(ctrl),
		mockPublisher: matchpublisherv1_mock.NewMockMatchPublisher(ctrl),
	}

	f.mockPublisher.EXPECT().Name().Return("mock").AnyTimes()

	f.engine = NewEngineWithOptions(
		f.exchange,
		f.mockReader,
		[]matchpublisherv1.MatchPublisher{f.mockPublisher},
		logger.NewNop(),
		&Options{
			ReadBackoff: time.Millisecond,
			Scale:       fixedpoint.DefaultScale,
		},
	)
	return f
}

func request(symbol string, id, qty, price int64, side orderbookv1.Side) *orderreaderv1.PlaceOrderRequest {
	return &orderreaderv1.PlaceOrderRequest{
		Symbol: symbol,
		Order:  orderbookv1.NewOrder(id, qty, price, side),
	}
}

func TestEngine_ProcessOrder(t *testing.T) {
	testCases := []struct {
		name          string
		requests      []*orderreaderv1.PlaceOrderRequest
		setupMocks    func(*testFixture)
		expectedStats Stats
	}{
		{
			name: "resting order publishes nothing",
			requests: []*orderreaderv1.PlaceOrderRequest{
				request("BTC", 1, 50000, 1000000, orderbookv1.SideBuy),
			},
			setupMocks:    func(f *testFixture) {},
			expectedStats: Stats{OrdersProcessed: 1},
		},
		{
			name: "cross publishes one trade at passive price",
			requests: []*orderreaderv1.PlaceOrderRequest{
				request("BTC", 1, 50000, 1000000, orderbookv1.SideBuy),
				request("BTC", 2, 30000, 990000, orderbookv1.SideSell),
			},
			setupMocks: func(f *testFixture) {
				f.mockPublisher.EXPECT().
					PublishTrades(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, trades []orderbookv1.TradeEvent) error {
						require.Len(t, trades, 1)
						assert.Equal(t, int64(1000000), trades[0].Price)
						assert.Equal(t, int64(30000), trades[0].Quantity)
						assert.Equal(t, orderbookv1.SideSell, trades[0].Side)
						return nil
					}).
					Times(1)
			},
			expectedStats: Stats{OrdersProcessed: 2, TradesExecuted: 1},
		},
		{
			name: "invalid order is counted as rejected",
			requests: []*orderreaderv1.PlaceOrderRequest{
				request("BTC", 1, 0, 1000000, orderbookv1.SideBuy),
			},
			setupMocks:    func(f *testFixture) {},
			expectedStats: Stats{OrdersRejected: 1},
		},
		{
			name: "publisher failure is counted",
			requests: []*orderreaderv1.PlaceOrderRequest{
				request("ETH", 1, 10000, 200000, orderbookv1.SideSell),
				request("ETH", 2, 10000, 200000, orderbookv1.SideBuy),
			},
			setupMocks: func(f *testFixture) {
				f.mockPublisher.EXPECT().
					PublishTrades(gomock.Any(), gomock.Len(1)).
					Return(stderrors.New("redis_publish_error")).
					Times(1)
			},
			expectedStats: Stats{OrdersProcessed: 2, TradesExecuted: 1, PublishErrors: 1},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := setupTest(t)
			tc.setupMocks(f)

			for _, req := range tc.requests {
				f.engine.processOrder(context.Background(), req)
			}

			assert.Equal(t, tc.expectedStats, f.engine.GetStats())
		})
	}
}

func TestEngine_PublishFanOut(t *testing.T) {
	ctrl := gomock.NewController(t)
	failing := matchpublisherv1_mock.NewMockMatchPublisher(ctrl)
	healthy := matchpublisherv1_mock.NewMockMatchPublisher(ctrl)
	failing.EXPECT().Name().Return("failing").AnyTimes()
	healthy.EXPECT().Name().Return("healthy").AnyTimes()

	trades := []orderbookv1.TradeEvent{{ID: "t1", Symbol: "BTC", Price: 1, Quantity: 1}}
	failing.EXPECT().PublishTrades(gomock.Any(), trades).Return(stderrors.New("down"))
	healthy.EXPECT().PublishTrades(gomock.Any(), trades).Return(nil)

	e := NewEngine(exchange.NewExchange(), nil, []matchpublisherv1.MatchPublisher{failing, healthy}, logger.NewNop())
	e.publish(context.Background(), trades)

	assert.Equal(t, int64(1), e.GetStats().PublishErrors)
}

func TestEngine_RunOrderProcessor(t *testing.T) {
	f := setupTest(t)

	var mu sync.Mutex
	calls := 0
	script := []func() (*orderreaderv1.PlaceOrderRequest, error){
		func() (*orderreaderv1.PlaceOrderRequest, error) {
			return request("BTC", 1, 50000, 1000000, orderbookv1.SideBuy), nil
		},
		func() (*orderreaderv1.PlaceOrderRequest, error) {
			return nil, fmt.Errorf("%w: bad side", orderreaderv1.ErrMalformedRecord)
		},
		func() (*orderreaderv1.PlaceOrderRequest, error) {
			return nil, stderrors.New("connection reset")
		},
		func() (*orderreaderv1.PlaceOrderRequest, error) {
			return request("BTC", 2, 50000, 1000000, orderbookv1.SideSell), nil
		},
	}

	f.mockReader.EXPECT().
		ReadOrder(gomock.Any()).
		DoAndReturn(func(ctx context.Context) (*orderreaderv1.PlaceOrderRequest, error) {
			mu.Lock()
			i := calls
			calls++
			mu.Unlock()

			if i < len(script) {
				return script[i]()
			}
			<-ctx.Done()
			return nil, ctx.Err()
		}).
		MinTimes(len(script) + 1)
	f.mockReader.EXPECT().Close().Return(nil).Times(1)

	published := make(chan []orderbookv1.TradeEvent, 1)
	f.mockPublisher.EXPECT().
		PublishTrades(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, trades []orderbookv1.TradeEvent) error {
			published <- trades
			return nil
		}).
		Times(1)

	require.NoError(t, f.engine.Start(context.Background()))

	select {
	case trades := <-published:
		require.Len(t, trades, 1)
		assert.Equal(t, int64(2), trades[0].TakerOrderID)
		assert.Equal(t, int64(1), trades[0].MakerOrderID)
	case <-time.After(2 * time.Second):
		t.Fatal("trade was not published")
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, f.engine.Stop(stopCtx))

	stats := f.engine.GetStats()
	assert.Equal(t, Stats{
		OrdersProcessed:  2,
		MalformedRecords: 1,
		ReadErrors:       1,
		TradesExecuted:   1,
	}, stats)
}

func TestEngine_MarketSummaries(t *testing.T) {
	f := setupTest(t)

	require.NoError(t, f.exchange.PlaceOrder("BTC", orderbookv1.NewOrder(1, 50000, 1000000, orderbookv1.SideBuy)))
	require.NoError(t, f.exchange.PlaceOrder("BTC", orderbookv1.NewOrder(2, 50000, 1010000, orderbookv1.SideSell)))
	require.NoError(t, f.exchange.PlaceOrder("ETH", orderbookv1.NewOrder(3, 10000, 25000000, orderbookv1.SideSell)))

	summaries := f.engine.MarketSummaries()
	require.Len(t, summaries, 2)

	assert.Equal(t, MarketSummary{
		Symbol:    "BTC",
		LastPrice: "-",
		BestBid:   "100",
		BestAsk:   "101",
		Spread:    "1",
		MidPrice:  "100.5",
	}, summaries[0])

	assert.Equal(t, MarketSummary{
		Symbol:    "ETH",
		LastPrice: "-",
		BestBid:   "-",
		BestAsk:   "2500",
		Spread:    "-",
		MidPrice:  "-",
	}, summaries[1])
}

func TestEngine_StopWithoutStart(t *testing.T) {
	f := setupTest(t)
	assert.NoError(t, f.engine.Stop(context.Background()))
}
