package exchange

import (
	"fmt"
	"sync"
	"testing"

	exchangev1 "github.com/muhammadchandra19/kairon/internal/domain/exchange/v1"
	orderbookv1 "github.com/muhammadchandra19/kairon/internal/domain/orderbook/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ exchangev1.Exchange = (*Exchange)(nil)

func TestExchange_RoutesBySymbol(t *testing.T) {
	ex := NewExchange()

	require.NoError(t, ex.PlaceOrder("BTC", orderbookv1.NewOrder(1, 5, 1000000, orderbookv1.SideBuy)))
	require.NoError(t, ex.PlaceOrder("ETH", orderbookv1.NewOrder(2, 5, 990000, orderbookv1.SideSell)))

	// would cross if both orders were in one book
	assert.Empty(t, ex.GetBroadcasts("BTC"))
	assert.Empty(t, ex.GetBroadcasts("ETH"))

	btc := ex.GetMarketData("BTC")
	assert.Equal(t, int64(1000000), btc.BestBid)
	assert.False(t, btc.HasAsk)

	eth := ex.GetMarketData("ETH")
	assert.Equal(t, int64(990000), eth.BestAsk)
	assert.False(t, eth.HasBid)

	assert.Equal(t, []string{"BTC", "ETH"}, ex.Symbols())
}

func TestExchange_MatchAndBroadcast(t *testing.T) {
	ex := NewExchange()

	require.NoError(t, ex.PlaceOrder("BTC", orderbookv1.NewOrder(1, 5, 1000000, orderbookv1.SideBuy)))
	require.NoError(t, ex.PlaceOrder("BTC", orderbookv1.NewOrder(2, 3, 990000, orderbookv1.SideSell)))

	trades := ex.GetBroadcasts("BTC")
	require.Len(t, trades, 1)
	assert.Equal(t, "BTC", trades[0].Symbol)
	assert.Equal(t, int64(1000000), trades[0].Price)
	assert.Equal(t, int64(3), trades[0].Quantity)

	assert.Empty(t, ex.GetBroadcasts("BTC"))
	assert.Equal(t, int64(1000000), ex.GetMarketData("BTC").LastPrice)
}

func TestExchange_QueryCreatesEmptyBook(t *testing.T) {
	ex := NewExchange()

	_, ok := ex.Lookup("DOGE")
	assert.False(t, ok)

	assert.Equal(t, orderbookv1.Ticker{}, ex.GetMarketData("DOGE"))

	ob, ok := ex.Lookup("DOGE")
	require.True(t, ok)
	assert.Equal(t, "DOGE", ob.Symbol())
	assert.Equal(t, []string{"DOGE"}, ex.Symbols())
}

func TestExchange_InvalidOrderDoesNotCreateBook(t *testing.T) {
	ex := NewExchange()

	err := ex.PlaceOrder("BTC", orderbookv1.NewOrder(1, 0, 1000000, orderbookv1.SideBuy))
	assert.ErrorIs(t, err, orderbookv1.ErrInvalidOrder)
	assert.Empty(t, ex.Symbols())
}

func TestExchange_ConcurrentSymbols(t *testing.T) {
	ex := NewExchange()
	symbols := []string{"BTC", "ETH", "SOL", "XRP"}

	var wg sync.WaitGroup
	for _, symbol := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			for id := int64(1); id <= 200; id++ {
				side := orderbookv1.SideBuy
				if id%2 == 0 {
					side = orderbookv1.SideSell
				}
				assert.NoError(t, ex.PlaceOrder(symbol, orderbookv1.NewOrder(id, 1, 100, side)))
				for _, trade := range ex.GetBroadcasts(symbol) {
					assert.Equal(t, symbol, trade.Symbol)
				}
				_ = ex.GetMarketData(symbol)
			}
		}(symbol)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_ = ex.Symbols()
			_ = ex.GetMarketData(fmt.Sprintf("NEW%d", i%3))
		}
	}()
	wg.Wait()

	for _, symbol := range symbols {
		ob, ok := ex.Lookup(symbol)
		require.True(t, ok)
		// alternating buy/sell of one unit at one price leaves nothing resting
		assert.Equal(t, int64(0), ob.BidTotalVolume()+ob.AskTotalVolume())
		assert.Equal(t, int64(100), ex.GetMarketData(symbol).LastPrice)
	}
}

func TestExchange_GetDepth(t *testing.T) {
	ex := NewExchange()

	require.NoError(t, ex.PlaceOrder("BTC", orderbookv1.NewOrder(1, 5, 1000000, orderbookv1.SideBuy)))
	require.NoError(t, ex.PlaceOrder("BTC", orderbookv1.NewOrder(2, 2, 1000000, orderbookv1.SideBuy)))
	require.NoError(t, ex.PlaceOrder("BTC", orderbookv1.NewOrder(3, 4, 1010000, orderbookv1.SideSell)))

	depth := ex.GetDepth("BTC", 10)
	require.Len(t, depth.Bids, 1)
	assert.Equal(t, orderbookv1.LevelSummary{Price: 1000000, Quantity: 7, Orders: 2}, depth.Bids[0])
	require.Len(t, depth.Asks, 1)
	assert.Equal(t, int64(4), depth.Asks[0].Quantity)
}
