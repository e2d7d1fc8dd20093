package exchange

import (
	"slices"
	"sync"

	orderbookv1 "github.com/muhammadchandra19/kairon/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/kairon/internal/usecase/orderbook"
)

// Exchange owns one order book per symbol. Books are created lazily and
// live as long as the Exchange. The map lock only covers lookup and
// creation; matching runs under the lock of the individual book, so
// different symbols never contend.
type Exchange struct {
	mu    sync.RWMutex
	books map[string]*orderbook.Orderbook
	opts  []orderbook.Option
}

// NewExchange creates an Exchange whose books are built with opts.
func NewExchange(opts ...orderbook.Option) *Exchange {
	return &Exchange{
		books: make(map[string]*orderbook.Orderbook),
		opts:  opts,
	}
}

func (e *Exchange) book(symbol string) *orderbook.Orderbook {
	e.mu.RLock()
	ob, ok := e.books[symbol]
	e.mu.RUnlock()
	if ok {
		return ob
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if ob, ok = e.books[symbol]; ok {
		return ob
	}
	ob = orderbook.NewOrderbook(symbol, e.opts...)
	e.books[symbol] = ob
	return ob
}

// PlaceOrder validates order and adds it to the book of symbol. Invalid
// orders are rejected before a book is created for them.
func (e *Exchange) PlaceOrder(symbol string, order *orderbookv1.Order) error {
	if err := order.Validate(); err != nil {
		return err
	}
	return e.book(symbol).AddOrder(order)
}

// GetBroadcasts returns and clears the pending trades of symbol.
func (e *Exchange) GetBroadcasts(symbol string) []orderbookv1.TradeEvent {
	return e.book(symbol).FlushTrades()
}

// GetMarketData returns the ticker of symbol.
func (e *Exchange) GetMarketData(symbol string) orderbookv1.Ticker {
	return e.book(symbol).GetTicker()
}

// GetDepth returns up to levels aggregated price levels per side of symbol.
func (e *Exchange) GetDepth(symbol string, levels int) orderbookv1.Depth {
	return e.book(symbol).Depth(levels)
}

// Lookup returns the book of symbol if one exists.
func (e *Exchange) Lookup(symbol string) (orderbookv1.Orderbook, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ob, ok := e.books[symbol]
	if !ok {
		return nil, false
	}
	return ob, true
}

// Symbols lists every symbol with a book.
func (e *Exchange) Symbols() []string {
	e.mu.RLock()
	symbols := make([]string, 0, len(e.books))
	for symbol := range e.books {
		symbols = append(symbols, symbol)
	}
	e.mu.RUnlock()

	slices.Sort(symbols)
	return symbols
}
