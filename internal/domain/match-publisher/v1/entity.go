package matchpublisherv1

import (
	"encoding/json"

	orderbookv1 "github.com/muhammadchandra19/kairon/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/kairon/pkg/fixedpoint"
)

// TradeMessageType is the "type" of every trade broadcast.
const TradeMessageType = "trade"

// timeLayout is wall clock HH:MM:SS.
const timeLayout = "15:04:05"

// TradeMessage is the broadcast form of a trade. Price and Qty are descaled
// decimals written as JSON numbers.
type TradeMessage struct {
	Type   string      `json:"type"`
	ID     string      `json:"id"`
	Symbol string      `json:"symbol"`
	Price  json.Number `json:"price"`
	Qty    json.Number `json:"qty"`
	Side   string      `json:"side"`
	Time   string      `json:"time"`
}

// NewTradeMessage descales trade with scale.
func NewTradeMessage(trade orderbookv1.TradeEvent, scale fixedpoint.Scale) TradeMessage {
	return TradeMessage{
		Type:   TradeMessageType,
		ID:     trade.ID,
		Symbol: trade.Symbol,
		Price:  json.Number(scale.Format(trade.Price)),
		Qty:    json.Number(scale.Format(trade.Quantity)),
		Side:   trade.Side.String(),
		Time:   trade.Timestamp.Format(timeLayout),
	}
}

// ToBytes converts the message to JSON.
func (m TradeMessage) ToBytes() []byte {
	data, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return data
}

// FromBytes converts JSON to a TradeMessage.
func FromBytes(data []byte) (*TradeMessage, error) {
	var msg TradeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
