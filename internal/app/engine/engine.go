package engine

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	exchangev1 "github.com/muhammadchandra19/kairon/internal/domain/exchange/v1"
	matchpublisherv1 "github.com/muhammadchandra19/kairon/internal/domain/match-publisher/v1"
	orderreaderv1 "github.com/muhammadchandra19/kairon/internal/domain/order-reader/v1"
	orderbookv1 "github.com/muhammadchandra19/kairon/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/kairon/pkg/logger"
)

// Stats counts what the order processor has seen since start.
type Stats struct {
	OrdersProcessed  int64 `json:"ordersProcessed"`
	OrdersRejected   int64 `json:"ordersRejected"`
	MalformedRecords int64 `json:"malformedRecords"`
	ReadErrors       int64 `json:"readErrors"`
	TradesExecuted   int64 `json:"tradesExecuted"`
	PublishErrors    int64 `json:"publishErrors"`
}

// MarketSummary is the descaled ticker of one symbol as logged by the monitor.
type MarketSummary struct {
	Symbol    string
	LastPrice string
	BestBid   string
	BestAsk   string
	Spread    string
	MidPrice  string
}

// Engine drives the exchange: a single order processor feeds every decoded
// order into the exchange and fans the resulting trades out to the
// publishers, while a monitor periodically logs market data.
type Engine struct {
	exchange    exchangev1.Exchange
	orderReader orderreaderv1.OrderReader
	publishers  []matchpublisherv1.MatchPublisher
	logger      *logger.Logger
	options     *Options

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	statsMu sync.RWMutex
	stats   Stats
}

// NewEngine creates a new instance of Engine with the default options.
func NewEngine(
	exchange exchangev1.Exchange,
	orderReader orderreaderv1.OrderReader,
	publishers []matchpublisherv1.MatchPublisher,
	logger *logger.Logger,
) *Engine {
	return NewEngineWithOptions(exchange, orderReader, publishers, logger, DefaultEngineOptions())
}

// NewEngineWithOptions creates a new engine with custom options.
func NewEngineWithOptions(
	exchange exchangev1.Exchange,
	orderReader orderreaderv1.OrderReader,
	publishers []matchpublisherv1.MatchPublisher,
	logger *logger.Logger,
	options *Options,
) *Engine {
	return &Engine{
		exchange:    exchange,
		orderReader: orderReader,
		publishers:  publishers,
		logger:      logger,
		options:     options,
	}
}

// Start launches the order processor and, when enabled, the monitor.
func (e *Engine) Start(ctx context.Context) error {
	e.ctx, e.cancel = context.WithCancel(ctx)

	e.wg.Add(1)
	go e.runOrderProcessor()

	if e.options.MonitorInterval > 0 {
		e.wg.Add(1)
		go e.runMonitor()
	}

	names := make([]string, 0, len(e.publishers))
	for _, p := range e.publishers {
		names = append(names, p.Name())
	}
	e.logger.Info("Engine started", logger.NewField("publishers", names))

	return nil
}

// Stop gracefully shuts down the engine.
func (e *Engine) Stop(ctx context.Context) error {
	if e.cancel != nil {
		e.cancel()
	}

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.logger.Info("Engine stopped gracefully", logger.NewField("stats", e.GetStats()))
		return nil
	case <-ctx.Done():
		e.logger.Warn("Engine stop timeout exceeded")
		return ctx.Err()
	}
}

// runOrderProcessor reads and processes orders one at a time until the
// engine context is cancelled.
func (e *Engine) runOrderProcessor() {
	defer e.wg.Done()
	defer func() {
		if err := e.orderReader.Close(); err != nil {
			e.logger.Error(err, logger.NewField("action", "close_order_reader"))
		}
	}()

	e.logger.Info("Starting order processor")

	for {
		if e.ctx.Err() != nil {
			e.logger.Info("Order processor shutting down")
			return
		}

		req, err := e.orderReader.ReadOrder(e.ctx)
		if err != nil {
			e.handleReadError(err)
			continue
		}

		e.processOrder(e.ctx, req)
	}
}

func (e *Engine) handleReadError(err error) {
	switch {
	case e.ctx.Err() != nil:
		return
	case stderrors.Is(err, orderreaderv1.ErrMalformedRecord):
		e.updateStats(func(s *Stats) { s.MalformedRecords++ })
	default:
		e.updateStats(func(s *Stats) { s.ReadErrors++ })
		e.logger.ErrorContext(e.ctx, err, logger.NewField("action", "read_order"))
		e.backoff()
	}
}

func (e *Engine) backoff() {
	timer := time.NewTimer(e.options.ReadBackoff)
	defer timer.Stop()

	select {
	case <-e.ctx.Done():
	case <-timer.C:
	}
}

// processOrder places one order and broadcasts the trades it produced.
func (e *Engine) processOrder(ctx context.Context, req *orderreaderv1.PlaceOrderRequest) {
	e.logger.Debug("Processing order",
		logger.NewField("symbol", req.Symbol),
		logger.NewField("orderID", req.Order.ID),
		logger.NewField("side", req.Order.Side.String()),
		logger.NewField("price", req.Order.Price),
		logger.NewField("quantity", req.Order.Quantity),
	)

	if err := e.exchange.PlaceOrder(req.Symbol, req.Order); err != nil {
		e.updateStats(func(s *Stats) { s.OrdersRejected++ })
		e.logger.WarnContext(ctx, "Order rejected",
			logger.NewField("symbol", req.Symbol),
			logger.NewField("orderID", req.Order.ID),
			logger.NewField("error", err.Error()),
		)
		return
	}

	trades := e.exchange.GetBroadcasts(req.Symbol)
	e.updateStats(func(s *Stats) {
		s.OrdersProcessed++
		s.TradesExecuted += int64(len(trades))
	})

	if len(trades) > 0 {
		e.publish(ctx, trades)
	}
}

// publish hands trades to every publisher. A failing publisher does not
// keep the others from receiving the batch.
func (e *Engine) publish(ctx context.Context, trades []orderbookv1.TradeEvent) {
	for _, p := range e.publishers {
		if err := p.PublishTrades(ctx, trades); err != nil {
			e.updateStats(func(s *Stats) { s.PublishErrors++ })
			e.logger.ErrorContext(ctx, err,
				logger.NewField("action", "publish_trades"),
				logger.NewField("publisher", p.Name()),
				logger.NewField("tradeCount", len(trades)),
			)
		}
	}
}

// runMonitor logs the ticker of every known symbol at a fixed interval.
func (e *Engine) runMonitor() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.options.MonitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.ctx.Done():
			e.logger.Info("Market data monitor shutting down")
			return
		case <-ticker.C:
			for _, summary := range e.MarketSummaries() {
				e.logger.Info("Market data",
					logger.NewField("symbol", summary.Symbol),
					logger.NewField("lastPrice", summary.LastPrice),
					logger.NewField("bestBid", summary.BestBid),
					logger.NewField("bestAsk", summary.BestAsk),
					logger.NewField("spread", summary.Spread),
					logger.NewField("midPrice", summary.MidPrice),
				)
			}
		}
	}
}

// MarketSummaries returns the descaled ticker of every symbol with a book.
// Absent sides render as "-".
func (e *Engine) MarketSummaries() []MarketSummary {
	symbols := e.exchange.Symbols()
	summaries := make([]MarketSummary, 0, len(symbols))

	for _, symbol := range symbols {
		t := e.exchange.GetMarketData(symbol)
		summaries = append(summaries, MarketSummary{
			Symbol:    symbol,
			LastPrice: e.formatPrice(t.LastPrice, t.LastPrice != orderbookv1.PriceAbsent),
			BestBid:   e.formatPrice(t.BestBid, t.HasBid),
			BestAsk:   e.formatPrice(t.BestAsk, t.HasAsk),
			Spread:    e.formatPrice(t.Spread, t.HasBid && t.HasAsk),
			MidPrice:  e.formatPrice(t.MidPrice, t.HasBid && t.HasAsk),
		})
	}
	return summaries
}

func (e *Engine) formatPrice(v int64, present bool) string {
	if !present {
		return "-"
	}
	return e.options.Scale.Format(v)
}

func (e *Engine) updateStats(fn func(*Stats)) {
	e.statsMu.Lock()
	defer e.statsMu.Unlock()
	fn(&e.stats)
}

// GetStats returns a copy of the processing counters.
func (e *Engine) GetStats() Stats {
	e.statsMu.RLock()
	defer e.statsMu.RUnlock()
	return e.stats
}
