package matchpublisher

import (
	"context"

	matchpublisherv1 "github.com/muhammadchandra19/kairon/internal/domain/match-publisher/v1"
	orderbookv1 "github.com/muhammadchandra19/kairon/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/kairon/internal/infrastructure/questdb/trade"
	"github.com/muhammadchandra19/kairon/pkg/config"
)

// TapePublisher appends trades to the QuestDB trade tape.
type TapePublisher struct {
	repo trade.TradeRepository
}

var _ matchpublisherv1.MatchPublisher = (*TapePublisher)(nil)

// NewTapePublisher creates a new TapePublisher.
func NewTapePublisher(repo trade.TradeRepository) *TapePublisher {
	return &TapePublisher{repo: repo}
}

// Name implements MatchPublisher.
func (p *TapePublisher) Name() string {
	return config.PublisherQuestDB
}

// PublishTrades stores the flush as one batch.
func (p *TapePublisher) PublishTrades(ctx context.Context, trades []orderbookv1.TradeEvent) error {
	if len(trades) == 0 {
		return nil
	}

	rows := make([]*trade.Trade, 0, len(trades))
	for _, t := range trades {
		rows = append(rows, trade.FromTradeEvent(t))
	}
	return p.repo.StoreBatch(ctx, rows)
}
