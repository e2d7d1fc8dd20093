package orderbook

import (
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	orderbookv1 "github.com/muhammadchandra19/kairon/internal/domain/orderbook/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func newTestOrderbook() *Orderbook {
	return NewOrderbook("BTC", WithClock(func() time.Time { return fixedNow }))
}

func buy(id, qty, price int64) *orderbookv1.Order {
	return orderbookv1.NewOrder(id, qty, price, orderbookv1.SideBuy)
}

func sell(id, qty, price int64) *orderbookv1.Order {
	return orderbookv1.NewOrder(id, qty, price, orderbookv1.SideSell)
}

func TestNewOrderbook(t *testing.T) {
	ob := NewOrderbook("ETH")

	assert.Equal(t, "ETH", ob.Symbol())
	assert.Equal(t, orderbookv1.Ticker{}, ob.GetTicker())
	assert.Empty(t, ob.FlushTrades())
	assert.Equal(t, int64(0), ob.BidTotalVolume())
	assert.Equal(t, int64(0), ob.AskTotalVolume())
}

func TestOrderbook_RestingBuyPartiallyFilledBySell(t *testing.T) {
	ob := newTestOrderbook()

	require.NoError(t, ob.AddOrder(buy(1, 5, 1000000)))
	require.NoError(t, ob.AddOrder(sell(2, 3, 990000)))

	trades := ob.FlushTrades()
	require.Len(t, trades, 1)
	assert.Equal(t, "BTC", trades[0].Symbol)
	assert.Equal(t, int64(1000000), trades[0].Price)
	assert.Equal(t, int64(3), trades[0].Quantity)
	assert.Equal(t, orderbookv1.SideSell, trades[0].Side)
	assert.Equal(t, int64(2), trades[0].TakerOrderID)
	assert.Equal(t, int64(1), trades[0].MakerOrderID)
	assert.Equal(t, fixedNow, trades[0].Timestamp)

	ticker := ob.GetTicker()
	assert.Equal(t, int64(1000000), ticker.BestBid)
	assert.True(t, ticker.HasBid)
	assert.False(t, ticker.HasAsk)
	assert.Equal(t, orderbookv1.PriceAbsent, ticker.BestAsk)
	assert.Equal(t, orderbookv1.PriceAbsent, ticker.MidPrice)
	assert.Equal(t, orderbookv1.PriceAbsent, ticker.Spread)
	assert.Equal(t, int64(1000000), ticker.LastPrice)

	assert.Equal(t, int64(2), ob.BidTotalVolume())
	assert.Equal(t, int64(0), ob.AskTotalVolume())
}

func TestOrderbook_ExactMatchEmptiesBook(t *testing.T) {
	ob := newTestOrderbook()

	require.NoError(t, ob.AddOrder(sell(1, 10, 50)))
	require.NoError(t, ob.AddOrder(buy(2, 10, 50)))

	trades := ob.FlushTrades()
	require.Len(t, trades, 1)
	assert.Equal(t, int64(10), trades[0].Quantity)
	assert.Equal(t, int64(50), trades[0].Price)
	assert.Equal(t, orderbookv1.SideBuy, trades[0].Side)

	ticker := ob.GetTicker()
	assert.False(t, ticker.HasBid)
	assert.False(t, ticker.HasAsk)
	assert.Equal(t, int64(50), ticker.LastPrice)

	depth := ob.Depth(0)
	assert.Empty(t, depth.Bids)
	assert.Empty(t, depth.Asks)
}

func TestOrderbook_PartialFillAcrossTwoRestingOrders(t *testing.T) {
	ob := newTestOrderbook()

	require.NoError(t, ob.AddOrder(sell(1, 4, 10)))
	require.NoError(t, ob.AddOrder(sell(2, 4, 10)))
	require.NoError(t, ob.AddOrder(buy(3, 6, 10)))

	trades := ob.FlushTrades()
	require.Len(t, trades, 2)
	assert.Equal(t, int64(4), trades[0].Quantity)
	assert.Equal(t, int64(1), trades[0].MakerOrderID)
	assert.Equal(t, int64(2), trades[1].Quantity)
	assert.Equal(t, int64(2), trades[1].MakerOrderID)

	depth := ob.Depth(0)
	require.Len(t, depth.Asks, 1)
	assert.Equal(t, orderbookv1.LevelSummary{Price: 10, Quantity: 2, Orders: 1}, depth.Asks[0])
	assert.Empty(t, depth.Bids)
}

func TestOrderbook_PricePriorityAcrossLevels(t *testing.T) {
	testCases := []struct {
		name           string
		resting        []*orderbookv1.Order
		incoming       *orderbookv1.Order
		expectedPrices []int64
		expectedQtys   []int64
	}{
		{
			name:           "buy sweeps asks lowest first",
			resting:        []*orderbookv1.Order{sell(1, 2, 101), sell(2, 2, 100), sell(3, 2, 102)},
			incoming:       buy(4, 5, 102),
			expectedPrices: []int64{100, 101, 102},
			expectedQtys:   []int64{2, 2, 1},
		},
		{
			name:           "sell sweeps bids highest first",
			resting:        []*orderbookv1.Order{buy(1, 2, 99), buy(2, 2, 100), buy(3, 2, 98)},
			incoming:       sell(4, 6, 98),
			expectedPrices: []int64{100, 99, 98},
			expectedQtys:   []int64{2, 2, 2},
		},
		{
			name:           "stops at limit price",
			resting:        []*orderbookv1.Order{sell(1, 2, 100), sell(2, 2, 105)},
			incoming:       buy(3, 5, 103),
			expectedPrices: []int64{100},
			expectedQtys:   []int64{2},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ob := newTestOrderbook()
			for _, o := range tc.resting {
				require.NoError(t, ob.AddOrder(o))
			}
			require.Empty(t, ob.FlushTrades())

			require.NoError(t, ob.AddOrder(tc.incoming))

			trades := ob.FlushTrades()
			require.Len(t, trades, len(tc.expectedPrices))
			for i, trade := range trades {
				assert.Equal(t, tc.expectedPrices[i], trade.Price)
				assert.Equal(t, tc.expectedQtys[i], trade.Quantity)
				assert.Equal(t, tc.incoming.Side, trade.Side)
			}
			assert.Equal(t, tc.expectedPrices[len(tc.expectedPrices)-1], ob.GetTicker().LastPrice)
			assert.NoError(t, ob.Validate())
		})
	}
}

func TestOrderbook_StopAtLimitRestsRemainder(t *testing.T) {
	ob := newTestOrderbook()

	require.NoError(t, ob.AddOrder(sell(1, 2, 100)))
	require.NoError(t, ob.AddOrder(sell(2, 2, 105)))
	require.NoError(t, ob.AddOrder(buy(3, 5, 103)))

	ticker := ob.GetTicker()
	assert.Equal(t, int64(103), ticker.BestBid)
	assert.Equal(t, int64(105), ticker.BestAsk)
	assert.Equal(t, int64(104), ticker.MidPrice)
	assert.Equal(t, int64(2), ticker.Spread)
	assert.Equal(t, int64(3), ob.BidTotalVolume())
}

func TestOrderbook_NonMarketableOrderRests(t *testing.T) {
	ob := newTestOrderbook()

	require.NoError(t, ob.AddOrder(sell(1, 5, 100)))
	require.NoError(t, ob.AddOrder(buy(2, 5, 99)))

	assert.Empty(t, ob.FlushTrades())
	ticker := ob.GetTicker()
	assert.Equal(t, int64(99), ticker.BestBid)
	assert.Equal(t, int64(100), ticker.BestAsk)
	assert.Equal(t, int64(99), ticker.MidPrice)
	assert.Equal(t, int64(1), ticker.Spread)
	assert.Equal(t, orderbookv1.PriceAbsent, ticker.LastPrice)
}

func TestOrderbook_FIFOWithinLevel(t *testing.T) {
	ob := newTestOrderbook()

	for id := int64(1); id <= 5; id++ {
		require.NoError(t, ob.AddOrder(buy(id, 1, 100)))
	}
	require.NoError(t, ob.AddOrder(sell(6, 5, 100)))

	trades := ob.FlushTrades()
	require.Len(t, trades, 5)
	for i, trade := range trades {
		assert.Equal(t, int64(i+1), trade.MakerOrderID)
	}
}

func TestOrderbook_RemainderJoinsBackOfQueue(t *testing.T) {
	ob := newTestOrderbook()

	require.NoError(t, ob.AddOrder(buy(1, 3, 100)))
	require.NoError(t, ob.AddOrder(sell(2, 1, 99)))
	require.NoError(t, ob.AddOrder(buy(3, 3, 100)))
	ob.FlushTrades()

	require.NoError(t, ob.AddOrder(sell(4, 5, 100)))
	trades := ob.FlushTrades()
	require.Len(t, trades, 2)
	assert.Equal(t, int64(1), trades[0].MakerOrderID)
	assert.Equal(t, int64(2), trades[0].Quantity)
	assert.Equal(t, int64(3), trades[1].MakerOrderID)
	assert.Equal(t, int64(3), trades[1].Quantity)
}

func TestOrderbook_RejectsInvalidOrders(t *testing.T) {
	testCases := []struct {
		name    string
		order   *orderbookv1.Order
		wantErr error
	}{
		{name: "nil order", order: nil, wantErr: orderbookv1.ErrNilOrder},
		{name: "zero quantity", order: buy(1, 0, 100), wantErr: orderbookv1.ErrInvalidOrder},
		{name: "negative quantity", order: sell(1, -1, 100), wantErr: orderbookv1.ErrInvalidOrder},
		{name: "zero price", order: sell(1, 1, 0), wantErr: orderbookv1.ErrInvalidOrder},
		{name: "price above maximum", order: buy(1, 1, orderbookv1.MaxPrice+1), wantErr: orderbookv1.ErrInvalidOrder},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ob := newTestOrderbook()
			require.NoError(t, ob.AddOrder(buy(9, 5, 100)))

			err := ob.AddOrder(tc.order)
			assert.ErrorIs(t, err, tc.wantErr)

			assert.Empty(t, ob.FlushTrades())
			assert.Equal(t, int64(5), ob.BidTotalVolume())
			assert.Equal(t, int64(0), ob.AskTotalVolume())
		})
	}
}

func TestOrderbook_LevelVolumeOverflowIsRefused(t *testing.T) {
	ob := newTestOrderbook()
	const fits = 1023
	for i := range fits {
		require.NoError(t, ob.AddOrder(sell(int64(i+1), orderbookv1.MaxQuantity, 100)))
	}

	err := ob.AddOrder(sell(fits+1, orderbookv1.MaxQuantity, 100))
	assert.ErrorIs(t, err, orderbookv1.ErrInvalidOrder)
	assert.Equal(t, fits*orderbookv1.MaxQuantity, ob.AskTotalVolume())
	assert.NoError(t, ob.Validate())

	require.NoError(t, ob.AddOrder(sell(fits+2, orderbookv1.MaxQuantity, 101)))
	assert.NoError(t, ob.Validate())
}

func TestOrderbook_FlushTradesIsIdempotentWhenEmpty(t *testing.T) {
	ob := newTestOrderbook()
	require.NoError(t, ob.AddOrder(sell(1, 1, 10)))
	require.NoError(t, ob.AddOrder(buy(2, 1, 10)))

	assert.Len(t, ob.FlushTrades(), 1)
	assert.Empty(t, ob.FlushTrades())
	assert.Empty(t, ob.FlushTrades())
}

func TestOrderbook_Depth(t *testing.T) {
	ob := newTestOrderbook()
	for i, price := range []int64{100, 99, 98, 97} {
		require.NoError(t, ob.AddOrder(buy(int64(i+1), 1, price)))
		require.NoError(t, ob.AddOrder(buy(int64(i+11), 2, price)))
	}
	for i, price := range []int64{103, 101, 102} {
		require.NoError(t, ob.AddOrder(sell(int64(i+21), 5, price)))
	}

	depth := ob.Depth(2)
	assert.Equal(t, []orderbookv1.LevelSummary{
		{Price: 100, Quantity: 3, Orders: 2},
		{Price: 99, Quantity: 3, Orders: 2},
	}, depth.Bids)
	assert.Equal(t, []orderbookv1.LevelSummary{
		{Price: 101, Quantity: 5, Orders: 1},
		{Price: 102, Quantity: 5, Orders: 1},
	}, depth.Asks)

	full := ob.Depth(0)
	assert.Len(t, full.Bids, 4)
	assert.Len(t, full.Asks, 3)
}

func TestOrderbook_PanicsOnEmptyLevel(t *testing.T) {
	ob := newTestOrderbook()
	ob.asks.ReplaceOrInsert(orderbookv1.NewPriceLevel(100))

	assert.Panics(t, func() {
		_ = ob.AddOrder(buy(1, 1, 100))
	})
	assert.ErrorIs(t, ob.Validate(), orderbookv1.ErrCorruptBook)
}

// Random flow checking conservation and the uncrossed-book invariant
// after every order.
func TestOrderbook_RandomFlowInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	ob := newTestOrderbook()

	var submitted, traded int64
	for id := int64(1); id <= 2000; id++ {
		qty := rng.Int64N(20) + 1
		price := 95 + rng.Int64N(11)
		side := orderbookv1.SideBuy
		if rng.IntN(2) == 0 {
			side = orderbookv1.SideSell
		}

		ticker := ob.GetTicker()
		require.NoError(t, ob.AddOrder(orderbookv1.NewOrder(id, qty, price, side)))
		submitted += qty

		for _, trade := range ob.FlushTrades() {
			require.Greater(t, trade.Quantity, int64(0))
			require.Equal(t, side, trade.Side)
			if side == orderbookv1.SideBuy {
				require.LessOrEqual(t, trade.Price, price)
				require.GreaterOrEqual(t, trade.Price, ticker.BestAsk)
			} else {
				require.GreaterOrEqual(t, trade.Price, price)
				require.LessOrEqual(t, trade.Price, ticker.BestBid)
			}
			traded += trade.Quantity
		}

		require.NoError(t, ob.Validate())
		require.Equal(t, submitted, 2*traded+ob.BidTotalVolume()+ob.AskTotalVolume())
	}
}

func TestOrderbook_ConcurrentReadersAndWriter(t *testing.T) {
	ob := newTestOrderbook()

	var wg sync.WaitGroup
	done := make(chan struct{})

	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					ticker := ob.GetTicker()
					if ticker.HasBid && ticker.HasAsk {
						assert.Less(t, ticker.BestBid, ticker.BestAsk)
					}
					_ = ob.Depth(5)
				}
			}
		}()
	}

	for id := int64(1); id <= 500; id++ {
		side := orderbookv1.SideBuy
		if id%2 == 0 {
			side = orderbookv1.SideSell
		}
		require.NoError(t, ob.AddOrder(orderbookv1.NewOrder(id, 3, 100+id%5, side)))
		ob.FlushTrades()
	}
	close(done)
	wg.Wait()

	assert.NoError(t, ob.Validate())
}
