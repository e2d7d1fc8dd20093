package api

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// MarketsResponse lists the symbols with a book.
type MarketsResponse struct {
	Symbols []string `json:"symbols"`
}

// TickerResponse is the descaled top of book. Absent values are null.
type TickerResponse struct {
	Symbol    string       `json:"symbol"`
	LastPrice *json.Number `json:"lastPrice"`
	BestBid   *json.Number `json:"bestBid"`
	BestAsk   *json.Number `json:"bestAsk"`
	Spread    *json.Number `json:"spread"`
	MidPrice  *json.Number `json:"midPrice"`
}

// PriceLevel is one aggregated level of the depth view.
type PriceLevel struct {
	Price  json.Number `json:"price"`
	Qty    json.Number `json:"qty"`
	Orders int         `json:"orders"`
}

// OrderbookResponse holds the best levels of each side, best first.
type OrderbookResponse struct {
	Symbol string       `json:"symbol"`
	Bids   []PriceLevel `json:"bids"`
	Asks   []PriceLevel `json:"asks"`
}

// TradeInfo is one trade of the tape.
type TradeInfo struct {
	ID           string      `json:"id"`
	Symbol       string      `json:"symbol"`
	Price        json.Number `json:"price"`
	Qty          json.Number `json:"qty"`
	Side         string      `json:"side"`
	TakerOrderID int64       `json:"takerOrderId"`
	MakerOrderID int64       `json:"makerOrderId"`
	Timestamp    int64       `json:"timestamp"` // unix milliseconds
}

// PlaceOrderRequest is the body of POST /api/v1/orders. Price and Qty are
// display decimals and may be sent as JSON numbers or strings.
type PlaceOrderRequest struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
	Qty    decimal.Decimal `json:"qty"`
	Side   string          `json:"side"`
}

// PlaceOrderResponse acknowledges an enqueued order.
type PlaceOrderResponse struct {
	Status  string `json:"status"`
	OrderID int64  `json:"orderId"`
}

// ErrorResponse is returned for all errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WSSubscribeRequest is sent by WebSocket clients, e.g.
// {"op":"subscribe","channels":["trades:BTC"]}.
type WSSubscribeRequest struct {
	Op       string   `json:"op"`
	Channels []string `json:"channels"`
}
