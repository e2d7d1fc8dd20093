package trade

import (
	"time"

	orderbookv1 "github.com/muhammadchandra19/kairon/internal/domain/orderbook/v1"
)

// Trade is one row of the trade tape. Price and Quantity stay scaled.
type Trade struct {
	Timestamp    time.Time
	ID           string
	Symbol       string
	Price        int64
	Quantity     int64
	Side         string
	TakerOrderID int64
	MakerOrderID int64
}

// FromTradeEvent maps an engine trade to a tape row.
func FromTradeEvent(e orderbookv1.TradeEvent) *Trade {
	return &Trade{
		Timestamp:    e.Timestamp,
		ID:           e.ID,
		Symbol:       e.Symbol,
		Price:        e.Price,
		Quantity:     e.Quantity,
		Side:         e.Side.String(),
		TakerOrderID: e.TakerOrderID,
		MakerOrderID: e.MakerOrderID,
	}
}
