package orderwriterv1

import "context"

// OrderWriter appends encoded order records to the ingestion queue of a symbol.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=orderwriterv1_mock
type OrderWriter interface {
	WriteOrder(ctx context.Context, symbol, record string) error
	Close() error
}
