package main

import (
	"context"
	"io"

	matchpublisherv1 "github.com/muhammadchandra19/kairon/internal/domain/match-publisher/v1"
	orderreaderv1 "github.com/muhammadchandra19/kairon/internal/domain/order-reader/v1"
	orderwriterv1 "github.com/muhammadchandra19/kairon/internal/domain/order-writer/v1"
	"github.com/muhammadchandra19/kairon/internal/infrastructure/questdb/trade"
	matchpublisher "github.com/muhammadchandra19/kairon/internal/usecase/match-publisher"
	orderreader "github.com/muhammadchandra19/kairon/internal/usecase/order-reader"
	orderwriter "github.com/muhammadchandra19/kairon/internal/usecase/order-writer"
	"github.com/muhammadchandra19/kairon/pkg/config"
	"github.com/muhammadchandra19/kairon/pkg/httplib/healthcheck"
	"github.com/muhammadchandra19/kairon/pkg/logger"
	"github.com/muhammadchandra19/kairon/pkg/questdb"
	"github.com/muhammadchandra19/kairon/pkg/redis"
)

// dependencies holds the external clients the process connected to. A nil
// field means the configuration does not need that backend.
type dependencies struct {
	redis   redis.Client
	questdb *questdb.Client
	trades  *trade.Repository

	closers []io.Closer
}

func needsRedis(cfg *config.Config) bool {
	return cfg.Engine.Transport == config.TransportRedis || cfg.PublisherEnabled(config.PublisherRedis)
}

// connect opens the clients required by cfg and registers their health checks.
func connect(ctx context.Context, hc *healthcheck.HealthCheck) (*dependencies, error) {
	deps := &dependencies{}

	if needsRedis(cfg) {
		client := redis.NewClient(log, &cfg.Redis)
		if err := client.Connect(ctx); err != nil {
			return nil, err
		}
		deps.redis = client
		hc.AddCheck("redis", client.Ping)
	}

	if cfg.QuestDB.Enabled {
		client, err := questdb.NewClient(ctx, cfg.QuestDB)
		if err != nil {
			deps.close(log)
			return nil, err
		}
		deps.questdb = client
		hc.AddCheck("questdb", client.Ping)

		repo := trade.NewRepository(client, log)
		if err := repo.EnsureSchema(ctx); err != nil {
			deps.close(log)
			return nil, err
		}
		deps.trades = repo
	}

	return deps, nil
}

func (d *dependencies) orderReader(cfg *config.Config, log *logger.Logger) (orderreaderv1.OrderReader, error) {
	if cfg.Engine.Transport == config.TransportKafka {
		return orderreader.NewKafkaReader(cfg.Kafka, cfg.Scale(), log), nil
	}
	return orderreader.NewRedisReader(d.redis, &cfg.Redis, cfg.Engine.Symbols, cfg.Scale(), log), nil
}

func (d *dependencies) orderWriter(cfg *config.Config) orderwriterv1.OrderWriter {
	if cfg.Engine.Transport == config.TransportKafka {
		return orderwriter.NewKafkaWriter(cfg.Kafka)
	}
	return orderwriter.NewRedisWriter(d.redis, &cfg.Redis)
}

// publishers builds the trade sinks listed in ENGINE_PUBLISHERS, in order.
func (d *dependencies) publishers(cfg *config.Config, hub matchpublisherv1.MatchPublisher) []matchpublisherv1.MatchPublisher {
	var publishers []matchpublisherv1.MatchPublisher

	for _, name := range cfg.Engine.Publishers {
		switch name {
		case config.PublisherRedis:
			publishers = append(publishers, matchpublisher.NewRedisPublisher(d.redis, cfg.Redis.TradeChannel, cfg.Scale()))
		case config.PublisherKafka:
			p := matchpublisher.NewKafkaPublisher(cfg.Kafka, cfg.Scale())
			d.closers = append(d.closers, p)
			publishers = append(publishers, p)
		case config.PublisherWebSocket:
			publishers = append(publishers, hub)
		case config.PublisherQuestDB:
			publishers = append(publishers, matchpublisher.NewTapePublisher(d.trades))
		}
	}

	return publishers
}

// tradeRepository returns the tape for the API, or nil when it is disabled.
func (d *dependencies) tradeRepository() trade.TradeRepository {
	if d.trades == nil {
		return nil
	}
	return d.trades
}

func (d *dependencies) close(log *logger.Logger) {
	for _, c := range d.closers {
		if err := c.Close(); err != nil {
			log.Error(err, logger.NewField("action", "close_publisher"))
		}
	}
	if d.questdb != nil {
		d.questdb.Close()
	}
	if d.redis != nil {
		if err := d.redis.Disconnect(context.Background()); err != nil {
			log.Error(err, logger.NewField("action", "disconnect_redis"))
		}
	}
}
