package trade

import "context"

// TradeRepository is the interface for the trade tape.
//
//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=mock
type TradeRepository interface {
	EnsureSchema(ctx context.Context) error
	StoreBatch(ctx context.Context, trades []*Trade) error
	GetRecentBySymbol(ctx context.Context, symbol string, limit int) ([]*Trade, error)
}
