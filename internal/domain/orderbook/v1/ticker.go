package orderbookv1

// PriceAbsent is reported for a ticker field that has no value, such as the
// best bid of an empty bid side or the last price before any trade.
const PriceAbsent int64 = 0

// Ticker is a point in time view of the top of a book.
type Ticker struct {
	BestBid   int64 `json:"bestBid"`
	BestAsk   int64 `json:"bestAsk"`
	MidPrice  int64 `json:"midPrice"`
	Spread    int64 `json:"spread"`
	LastPrice int64 `json:"lastPrice"`
	HasBid    bool  `json:"hasBid"`
	HasAsk    bool  `json:"hasAsk"`
}

// NewTicker derives mid price and spread. Both stay PriceAbsent unless
// both sides are populated; the mid price truncates.
func NewTicker(bestBid int64, hasBid bool, bestAsk int64, hasAsk bool, lastPrice int64) Ticker {
	t := Ticker{
		BestBid:   PriceAbsent,
		BestAsk:   PriceAbsent,
		MidPrice:  PriceAbsent,
		Spread:    PriceAbsent,
		LastPrice: lastPrice,
		HasBid:    hasBid,
		HasAsk:    hasAsk,
	}
	if hasBid {
		t.BestBid = bestBid
	}
	if hasAsk {
		t.BestAsk = bestAsk
	}
	if hasBid && hasAsk {
		t.MidPrice = bestBid + (bestAsk-bestBid)/2
		t.Spread = bestAsk - bestBid
	}
	return t
}

// LevelSummary aggregates one price level.
type LevelSummary struct {
	Price    int64 `json:"price"`
	Quantity int64 `json:"quantity"`
	Orders   int   `json:"orders"`
}

// Depth lists the best levels of each side, best first.
type Depth struct {
	Bids []LevelSummary `json:"bids"`
	Asks []LevelSummary `json:"asks"`
}
