package orderreaderv1

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	orderbookv1 "github.com/muhammadchandra19/kairon/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/kairon/pkg/fixedpoint"
)

// ErrMalformedRecord is returned for ingestion records that cannot be
// decoded. Such records are dropped; they never reach a book.
var ErrMalformedRecord = errors.New("malformed order record")

const (
	recordFields = 4
	buyFlag      = "1"
)

// PlaceOrderRequest is a decoded ingestion record with its routing symbol.
type PlaceOrderRequest struct {
	Symbol string
	Order  *orderbookv1.Order
	// Offset is the transport position of the record, zero for Redis lists.
	Offset int64
}

// DecodeOrderRecord parses "id,qty,scaledPrice,sideFlag". A side flag of
// "1" is a buy, anything else a sell. The price goes through the
// descale/rescale round trip of fixedpoint.Scale.Rescale.
func DecodeOrderRecord(payload string, scale fixedpoint.Scale) (*orderbookv1.Order, error) {
	fields := strings.Split(strings.TrimSpace(payload), ",")
	if len(fields) != recordFields {
		return nil, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedRecord, recordFields, len(fields))
	}

	id, err := strconv.ParseInt(strings.TrimSpace(fields[0]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: id: %v", ErrMalformedRecord, err)
	}

	qty, err := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: quantity: %v", ErrMalformedRecord, err)
	}

	wirePrice, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: price: %v", ErrMalformedRecord, err)
	}
	if math.IsNaN(wirePrice) || math.IsInf(wirePrice, 0) {
		return nil, fmt.Errorf("%w: price is not finite", ErrMalformedRecord)
	}
	if wirePrice >= math.MaxInt64 || wirePrice <= math.MinInt64 {
		return nil, fmt.Errorf("%w: price %s out of range", ErrMalformedRecord, fields[2])
	}

	side := orderbookv1.SideSell
	if strings.TrimSpace(fields[3]) == buyFlag {
		side = orderbookv1.SideBuy
	}

	return orderbookv1.NewOrder(id, qty, scale.Rescale(wirePrice), side), nil
}

// EncodeOrderRecord renders the ingestion record for an already scaled order.
func EncodeOrderRecord(id, quantity, scaledPrice int64, side orderbookv1.Side) string {
	flag := "0"
	if side == orderbookv1.SideBuy {
		flag = buyFlag
	}
	return fmt.Sprintf("%d,%d,%d,%s", id, quantity, scaledPrice, flag)
}
