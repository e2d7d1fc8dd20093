package orderbookv1

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// TradeEvent records one fill. Price is the resting order's price and Side
// is the side of the incoming (aggressor) order.
type TradeEvent struct {
	ID           string    `json:"id"`
	Symbol       string    `json:"symbol"`
	Price        int64     `json:"price"`
	Quantity     int64     `json:"quantity"`
	Side         Side      `json:"side"`
	TakerOrderID int64     `json:"takerOrderId"`
	MakerOrderID int64     `json:"makerOrderId"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewTradeEvent builds the event for fill, executed by taker.
func NewTradeEvent(symbol string, taker *Order, fill Fill, at time.Time) TradeEvent {
	return TradeEvent{
		ID:           ulid.Make().String(),
		Symbol:       symbol,
		Price:        fill.Price,
		Quantity:     fill.Quantity,
		Side:         taker.Side,
		TakerOrderID: taker.ID,
		MakerOrderID: fill.MakerOrderID,
		Timestamp:    at,
	}
}
