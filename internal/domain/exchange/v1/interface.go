package exchangev1

import orderbookv1 "github.com/muhammadchandra19/kairon/internal/domain/orderbook/v1"

// Exchange routes orders and queries to the book of each symbol.
type Exchange interface {
	// PlaceOrder forwards order to the book of symbol, creating it on first use.
	PlaceOrder(symbol string, order *orderbookv1.Order) error
	// GetBroadcasts flushes the pending trades of symbol.
	GetBroadcasts(symbol string) []orderbookv1.TradeEvent
	// GetMarketData returns the ticker of symbol. An unknown symbol gets an empty book.
	GetMarketData(symbol string) orderbookv1.Ticker
	// GetDepth returns the aggregated levels of symbol, best first.
	GetDepth(symbol string, levels int) orderbookv1.Depth
	// Lookup returns the book of symbol without creating one.
	Lookup(symbol string) (orderbookv1.Orderbook, bool)
	// Symbols lists the symbols with a book, sorted.
	Symbols() []string
}
