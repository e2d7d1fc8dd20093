package orderbookv1

// Orderbook is the book of a single instrument.
type Orderbook interface {
	// AddOrder matches order against the opposite side and rests any remainder.
	AddOrder(order *Order) error
	// FlushTrades returns and clears the trades produced since the last flush.
	FlushTrades() []TradeEvent
	GetTicker() Ticker
	Depth(levels int) Depth
	BidTotalVolume() int64
	AskTotalVolume() int64
	Symbol() string
}
