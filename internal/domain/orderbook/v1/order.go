package orderbookv1

import "fmt"

// Side is the direction of an order.
type Side uint8

const (
	// SideBuy is a bid.
	SideBuy Side = iota + 1
	// SideSell is an ask.
	SideSell
)

// String returns "buy" or "sell", the form used on the wire.
func (s Side) String() string {
	switch s {
	case SideBuy:
		return "buy"
	case SideSell:
		return "sell"
	default:
		return "unknown"
	}
}

// IsValid reports whether s is one of the two known sides.
func (s Side) IsValid() bool {
	return s == SideBuy || s == SideSell
}

// Opposite returns the side an order of side s trades against.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// MaxPrice and MaxQuantity bound what a book accepts. Ingestion records
// carry prices as float64, which is exact up to 2^53.
const (
	MaxPrice    int64 = 1 << 53
	MaxQuantity int64 = 1 << 53
)

// Order is a limit order. Price and Quantity are scaled integers.
// Quantity shrinks as the order fills; Price never changes.
type Order struct {
	ID       int64 `json:"id"`
	Quantity int64 `json:"quantity"`
	Price    int64 `json:"price"`
	Side     Side  `json:"side"`
}

// NewOrder creates a new order with the given parameters.
func NewOrder(id, quantity, price int64, side Side) *Order {
	return &Order{
		ID:       id,
		Quantity: quantity,
		Price:    price,
		Side:     side,
	}
}

// IsBuy checks if the order is a bid.
func (o *Order) IsBuy() bool {
	return o.Side == SideBuy
}

// IsFilled checks if nothing is left to trade.
func (o *Order) IsFilled() bool {
	return o.Quantity <= 0
}

// Validate checks the order can enter a book.
func (o *Order) Validate() error {
	if o == nil {
		return ErrNilOrder
	}
	if o.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidOrder, o.Quantity)
	}
	if o.Quantity > MaxQuantity {
		return fmt.Errorf("%w: quantity %d above maximum %d", ErrInvalidOrder, o.Quantity, MaxQuantity)
	}
	if o.Price <= 0 {
		return fmt.Errorf("%w: price must be positive, got %d", ErrInvalidOrder, o.Price)
	}
	if o.Price > MaxPrice {
		return fmt.Errorf("%w: price %d above maximum %d", ErrInvalidOrder, o.Price, MaxPrice)
	}
	if !o.Side.IsValid() {
		return fmt.Errorf("%w: unknown side %d", ErrInvalidOrder, o.Side)
	}
	return nil
}

// Crosses reports whether o is marketable against a resting level at price.
func (o *Order) Crosses(price int64) bool {
	if o.IsBuy() {
		return price <= o.Price
	}
	return price >= o.Price
}
