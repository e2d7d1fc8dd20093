package orderreaderv1

import "context"

// OrderReader defines the interface for reading orders from an ingestion queue.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=orderreaderv1_mock
type OrderReader interface {
	// ReadOrder blocks until a record arrives or ctx is done. Undecodable
	// records surface as ErrMalformedRecord; the reader has already consumed them.
	ReadOrder(ctx context.Context) (*PlaceOrderRequest, error)
	// Close closes the reader
	Close() error
}
