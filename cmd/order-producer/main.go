package main

import (
	"context"
	"flag"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	orderreaderv1 "github.com/muhammadchandra19/kairon/internal/domain/order-reader/v1"
	orderwriterv1 "github.com/muhammadchandra19/kairon/internal/domain/order-writer/v1"
	orderbookv1 "github.com/muhammadchandra19/kairon/internal/domain/orderbook/v1"
	orderwriter "github.com/muhammadchandra19/kairon/internal/usecase/order-writer"
	"github.com/muhammadchandra19/kairon/pkg/config"
	"github.com/muhammadchandra19/kairon/pkg/fixedpoint"
	"github.com/muhammadchandra19/kairon/pkg/logger"
	"github.com/muhammadchandra19/kairon/pkg/redis"
)

// generatedOrder is one order of the synthetic flow, already scaled.
type generatedOrder struct {
	Symbol   string
	ID       int64
	Quantity int64
	Price    int64
	Side     orderbookv1.Side
}

func (o generatedOrder) record() string {
	return orderreaderv1.EncodeOrderRecord(o.ID, o.Quantity, o.Price, o.Side)
}

// generateOrders creates count orders spread evenly over symbols. Prices are
// drawn around basePrice so both sides cross regularly.
func generateOrders(r *rand.Rand, symbols []string, count int, startID int64, basePrice, priceSpread float64, scale fixedpoint.Scale) []generatedOrder {
	orders := make([]generatedOrder, 0, count)

	for i := 0; i < count; i++ {
		side := orderbookv1.SideSell
		if r.Float64() < 0.5 {
			side = orderbookv1.SideBuy
		}

		// Size between 0.01 and 10.0
		size := 0.01 + r.Float64()*9.99

		price := basePrice + (r.Float64()-0.5)*priceSpread
		if price <= 0 {
			price = basePrice
		}

		qty := max(scale.FloorFromFloat(size), 1)
		scaledPrice := max(scale.FloorFromFloat(price), 1)

		orders = append(orders, generatedOrder{
			Symbol:   symbols[i%len(symbols)],
			ID:       startID + int64(i),
			Quantity: qty,
			Price:    scaledPrice,
			Side:     side,
		})
	}

	return orders
}

func newWriter(ctx context.Context, transport config.Transport, cfg *config.Config, log *logger.Logger) (orderwriterv1.OrderWriter, func(), error) {
	if transport == config.TransportKafka {
		return orderwriter.NewKafkaWriter(cfg.Kafka), func() {}, nil
	}

	client := redis.NewClient(log, &cfg.Redis)
	if err := client.Connect(ctx); err != nil {
		return nil, nil, err
	}
	return orderwriter.NewRedisWriter(client, &cfg.Redis), func() { _ = client.Disconnect(ctx) }, nil
}

func main() {
	var (
		transport   = flag.String("transport", "", "Ingestion transport: redis or kafka (defaults to ENGINE_TRANSPORT)")
		symbols     = flag.String("symbols", "BTC", "Symbols to send orders for (comma-separated)")
		delay       = flag.Duration("delay", 100*time.Millisecond, "Delay between sending orders")
		count       = flag.Int("count", 1000, "Number of orders to generate")
		startID     = flag.Int64("start-id", 1, "Id of the first generated order")
		basePrice   = flag.Float64("base-price", 3945.5, "Base price for orders")
		priceSpread = flag.Float64("price-spread", 20.0, "Price spread range")
		seed        = flag.Uint64("seed", uint64(time.Now().UnixNano()), "Random seed")
	)
	flag.Parse()

	log, err := logger.NewLogger(logger.WithStaticFields(logger.NewField("service", "order-producer")))
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	cfg := &config.Config{}
	if err := config.Load(cfg); err != nil {
		log.Error(err, logger.NewField("action", "load_config"))
		return
	}

	selected := cfg.Engine.Transport
	if *transport != "" {
		selected = config.Transport(*transport)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	writer, disconnect, err := newWriter(ctx, selected, cfg, log)
	if err != nil {
		log.Error(err, logger.NewField("action", "create_writer"))
		return
	}
	defer disconnect()
	defer func() { _ = writer.Close() }()

	r := rand.New(rand.NewPCG(*seed, *seed>>1))
	orders := generateOrders(r, strings.Split(*symbols, ","), *count, *startID, *basePrice, *priceSpread, cfg.Scale())
	log.Info("Generated orders",
		logger.NewField("count", len(orders)),
		logger.NewField("transport", string(selected)),
		logger.NewField("delay", delay.String()),
	)

	sent := 0
	for _, order := range orders {
		if err := writer.WriteOrder(ctx, order.Symbol, order.record()); err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Error(err, logger.NewField("action", "write_order"), logger.NewField("orderID", order.ID))
			continue
		}
		sent++

		if sent%100 == 0 {
			log.Info("Progress", logger.NewField("sent", sent), logger.NewField("total", len(orders)))
		}

		select {
		case <-ctx.Done():
		case <-time.After(*delay):
		}
		if ctx.Err() != nil {
			break
		}
	}

	log.Info("Finished sending orders", logger.NewField("sent", sent))
}
