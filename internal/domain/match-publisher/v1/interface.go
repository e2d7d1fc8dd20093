package matchpublisherv1

import (
	"context"

	orderbookv1 "github.com/muhammadchandra19/kairon/internal/domain/orderbook/v1"
)

// MatchPublisher broadcasts trades produced by the engine.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=matchpublisherv1_mock
type MatchPublisher interface {
	// Name identifies the publisher in logs.
	Name() string
	// PublishTrades publishes the trades of one flush, in order.
	PublishTrades(ctx context.Context, trades []orderbookv1.TradeEvent) error
}
