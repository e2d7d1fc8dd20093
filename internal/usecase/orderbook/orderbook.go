package orderbook

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/btree"
	orderbookv1 "github.com/muhammadchandra19/kairon/internal/domain/orderbook/v1"
)

const btreeDegree = 32

type side = btree.BTreeG[*orderbookv1.PriceLevel]

// Orderbook is the price-time priority book of one symbol.
//
// Each side is a B-tree ordered best price first, so the best level of
// either side is the tree minimum. A single RWMutex guards the book:
// AddOrder and FlushTrades take the write lock, read views the read lock.
type Orderbook struct {
	mu sync.RWMutex

	symbol          string
	bids            *side
	asks            *side
	lastTradedPrice int64
	trades          []orderbookv1.TradeEvent

	now func() time.Time
}

// Option customises a new Orderbook.
type Option func(*Orderbook)

// WithClock overrides the clock used to stamp trades.
func WithClock(now func() time.Time) Option {
	return func(ob *Orderbook) {
		ob.now = now
	}
}

// NewOrderbook creates an empty book for symbol.
func NewOrderbook(symbol string, opts ...Option) *Orderbook {
	ob := &Orderbook{
		symbol: symbol,
		bids: btree.NewG(btreeDegree, func(a, b *orderbookv1.PriceLevel) bool {
			return a.Price > b.Price
		}),
		asks: btree.NewG(btreeDegree, func(a, b *orderbookv1.PriceLevel) bool {
			return a.Price < b.Price
		}),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(ob)
	}
	return ob
}

// Symbol returns the instrument the book trades.
func (ob *Orderbook) Symbol() string {
	return ob.symbol
}

// AddOrder matches order against the opposite side while it is marketable,
// then rests whatever is left at the back of its own price level. The book
// takes ownership of order: its Quantity reflects what remains after the call.
func (ob *Orderbook) AddOrder(order *orderbookv1.Order) error {
	if err := order.Validate(); err != nil {
		return err
	}

	ob.mu.Lock()
	defer ob.mu.Unlock()

	ob.match(order)

	if order.IsFilled() {
		return nil
	}
	return ob.rest(order)
}

func (ob *Orderbook) match(order *orderbookv1.Order) {
	opposite := ob.sideOf(order.Side.Opposite())
	now := ob.now()

	for !order.IsFilled() {
		best, ok := opposite.Min()
		if !ok || !order.Crosses(best.Price) {
			return
		}
		if best.IsEmpty() {
			panic(fmt.Errorf("%w: empty %s level at %d in %s", orderbookv1.ErrCorruptBook, order.Side.Opposite(), best.Price, ob.symbol))
		}

		for _, fill := range best.Fill(order) {
			ob.lastTradedPrice = fill.Price
			ob.trades = append(ob.trades, orderbookv1.NewTradeEvent(ob.symbol, order, fill, now))
		}

		if best.IsEmpty() {
			opposite.Delete(best)
		}
	}
}

func (ob *Orderbook) rest(order *orderbookv1.Order) error {
	levels := ob.sideOf(order.Side)

	level, ok := levels.Get(orderbookv1.NewPriceLevel(order.Price))
	if !ok {
		level = orderbookv1.NewPriceLevel(order.Price)
	}

	if err := level.Append(order); err != nil {
		return err
	}
	if !ok {
		levels.ReplaceOrInsert(level)
	}
	return nil
}

func (ob *Orderbook) sideOf(s orderbookv1.Side) *side {
	if s == orderbookv1.SideBuy {
		return ob.bids
	}
	return ob.asks
}

// FlushTrades returns the trades produced since the previous flush and
// clears the buffer. The caller owns the returned slice.
func (ob *Orderbook) FlushTrades() []orderbookv1.TradeEvent {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	trades := ob.trades
	ob.trades = nil
	return trades
}

// GetTicker returns the top of book and the last traded price.
func (ob *Orderbook) GetTicker() orderbookv1.Ticker {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	var bidPrice, askPrice int64
	bid, hasBid := ob.bids.Min()
	if hasBid {
		bidPrice = bid.Price
	}
	ask, hasAsk := ob.asks.Min()
	if hasAsk {
		askPrice = ask.Price
	}

	return orderbookv1.NewTicker(bidPrice, hasBid, askPrice, hasAsk, ob.lastTradedPrice)
}

// Depth aggregates up to levels price levels per side, best first.
// A non-positive levels returns every level.
func (ob *Orderbook) Depth(levels int) orderbookv1.Depth {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	return orderbookv1.Depth{
		Bids: summarize(ob.bids, levels),
		Asks: summarize(ob.asks, levels),
	}
}

func summarize(levels *side, limit int) []orderbookv1.LevelSummary {
	out := make([]orderbookv1.LevelSummary, 0)
	levels.Ascend(func(l *orderbookv1.PriceLevel) bool {
		out = append(out, orderbookv1.LevelSummary{
			Price:    l.Price,
			Quantity: l.TotalVolume,
			Orders:   l.OrderCount(),
		})
		return limit <= 0 || len(out) < limit
	})
	return out
}

// BidTotalVolume returns the resting quantity on the bid side.
func (ob *Orderbook) BidTotalVolume() int64 {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	return totalVolume(ob.bids)
}

// AskTotalVolume returns the resting quantity on the ask side.
func (ob *Orderbook) AskTotalVolume() int64 {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	return totalVolume(ob.asks)
}

func totalVolume(levels *side) int64 {
	var total int64
	levels.Ascend(func(l *orderbookv1.PriceLevel) bool {
		total += l.TotalVolume
		return true
	})
	return total
}

// Validate walks the whole book and checks every level and that the book
// is not crossed.
func (ob *Orderbook) Validate() error {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	var err error
	check := func(l *orderbookv1.PriceLevel) bool {
		err = l.Validate()
		return err == nil
	}
	ob.bids.Ascend(check)
	if err != nil {
		return err
	}
	ob.asks.Ascend(check)
	if err != nil {
		return err
	}

	bid, hasBid := ob.bids.Min()
	ask, hasAsk := ob.asks.Min()
	if hasBid && hasAsk && bid.Price >= ask.Price {
		return fmt.Errorf("%w: crossed book, bid %d >= ask %d", orderbookv1.ErrCorruptBook, bid.Price, ask.Price)
	}
	return nil
}
