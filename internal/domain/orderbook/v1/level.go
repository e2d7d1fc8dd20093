package orderbookv1

import (
	"fmt"
	"math"

	"github.com/gammazero/deque"
)

// PriceLevel is the FIFO queue of resting orders at one price.
// It is not safe for concurrent use; the owning book serialises access.
type PriceLevel struct {
	Price       int64
	TotalVolume int64
	orders      deque.Deque[*Order]
}

// Fill is one execution against a resting order.
type Fill struct {
	MakerOrderID int64
	Price        int64
	Quantity     int64
	MakerFilled  bool
}

// NewPriceLevel creates an empty level at price.
func NewPriceLevel(price int64) *PriceLevel {
	return &PriceLevel{Price: price}
}

// Append queues order at the back of the level.
func (l *PriceLevel) Append(order *Order) error {
	if order == nil {
		return ErrNilOrder
	}
	if order.Quantity <= 0 {
		return fmt.Errorf("%w: resting quantity must be positive, got %d", ErrInvalidOrder, order.Quantity)
	}
	if order.Price != l.Price {
		return fmt.Errorf("%w: order price %d does not match level %d", ErrInvalidOrder, order.Price, l.Price)
	}

	if order.Quantity > math.MaxInt64-l.TotalVolume {
		return fmt.Errorf("%w: level %d volume would overflow", ErrInvalidOrder, l.Price)
	}

	l.orders.PushBack(order)
	l.TotalVolume += order.Quantity
	return nil
}

// Fill trades incoming against the level front to back until either the
// incoming order or the level is exhausted. Fully filled resting orders
// are removed. Every fill executes at the level price.
func (l *PriceLevel) Fill(incoming *Order) []Fill {
	var fills []Fill

	for incoming.Quantity > 0 && l.orders.Len() > 0 {
		resting := l.orders.Front()
		qty := min(incoming.Quantity, resting.Quantity)

		incoming.Quantity -= qty
		resting.Quantity -= qty
		l.TotalVolume -= qty

		fill := Fill{
			MakerOrderID: resting.ID,
			Price:        resting.Price,
			Quantity:     qty,
		}
		if resting.IsFilled() {
			l.orders.PopFront()
			fill.MakerFilled = true
		}
		fills = append(fills, fill)
	}

	return fills
}

// Front returns the oldest order, or nil when the level is empty.
func (l *PriceLevel) Front() *Order {
	if l.orders.Len() == 0 {
		return nil
	}
	return l.orders.Front()
}

// IsEmpty checks if the level has no orders
func (l *PriceLevel) IsEmpty() bool {
	return l.orders.Len() == 0
}

// OrderCount returns the number of orders at this level
func (l *PriceLevel) OrderCount() int {
	return l.orders.Len()
}

// Orders returns a copy of the queue, oldest first.
func (l *PriceLevel) Orders() []Order {
	out := make([]Order, 0, l.orders.Len())
	for i := 0; i < l.orders.Len(); i++ {
		out = append(out, *l.orders.At(i))
	}
	return out
}

// Validate performs basic validation of the level's state
func (l *PriceLevel) Validate() error {
	if l.orders.Len() == 0 {
		return fmt.Errorf("%w: empty level at %d", ErrCorruptBook, l.Price)
	}

	var volume int64
	for i := 0; i < l.orders.Len(); i++ {
		o := l.orders.At(i)
		if o.Quantity <= 0 {
			return fmt.Errorf("%w: order %d rests with quantity %d", ErrCorruptBook, o.ID, o.Quantity)
		}
		volume += o.Quantity
	}
	if volume != l.TotalVolume {
		return fmt.Errorf("%w: volume mismatch at %d: calculated %d, stored %d", ErrCorruptBook, l.Price, volume, l.TotalVolume)
	}
	return nil
}
