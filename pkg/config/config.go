package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/muhammadchandra19/kairon/pkg/fixedpoint"
	"github.com/muhammadchandra19/kairon/pkg/questdb"
	"github.com/muhammadchandra19/kairon/pkg/redis"
)

// Transport names the ingestion transport.
type Transport string

const (
	// TransportRedis reads orders from Redis lists.
	TransportRedis Transport = "redis"
	// TransportKafka reads orders from a Kafka topic.
	TransportKafka Transport = "kafka"
)

// Publisher names a trade broadcast sink.
const (
	PublisherRedis     = "redis"
	PublisherKafka     = "kafka"
	PublisherWebSocket = "websocket"
	PublisherQuestDB   = "questdb"
)

// MustLoad loads the configuration from environment variables and .env file.
func MustLoad[T any](cfg T) {
	env.Must(cfg, Load(cfg))
}

// Load loads the configuration from environment variables and an optional .env file.
func Load[T any](cfg T) error {
	if err := godotenv.Load(); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return err
	}

	return env.Parse(cfg)
}

// Config holds the configuration for the engine process.
type Config struct {
	App     AppConfig      `envPrefix:"APP_"`
	Engine  EngineConfig   `envPrefix:"ENGINE_"`
	Redis   redis.Config   `envPrefix:"REDIS_"`
	Kafka   KafkaConfig    `envPrefix:"KAFKA_"`
	QuestDB questdb.Config `envPrefix:"QUESTDB_"`
}

// AppConfig holds process level settings.
type AppConfig struct {
	Name            string        `env:"NAME" envDefault:"kairon-engine"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8080"`
	GRPCPort        int           `env:"GRPC_PORT" envDefault:"8880"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	AllowedOrigins  []string      `env:"ALLOWED_ORIGINS" envDefault:"*"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// EngineConfig holds matching engine settings.
type EngineConfig struct {
	// Symbols the ingestion worker listens for.
	Symbols         []string      `env:"SYMBOLS" envDefault:"BTC"`
	PriceScale      int64         `env:"PRICE_SCALE" envDefault:"10000"`
	Transport       Transport     `env:"TRANSPORT" envDefault:"redis"`
	Publishers      []string      `env:"PUBLISHERS" envDefault:"redis,websocket"`
	ReadBackoff     time.Duration `env:"READ_BACKOFF" envDefault:"100ms"`
	MonitorInterval time.Duration `env:"MONITOR_INTERVAL" envDefault:"5s"`
}

// KafkaConfig holds the configuration for Kafka readers and writers.
type KafkaConfig struct {
	Brokers    []string `env:"BROKERS" envDefault:"localhost:9092"`
	OrderTopic string   `env:"ORDER_TOPIC" envDefault:"orders"`
	TradeTopic string   `env:"TRADE_TOPIC" envDefault:"trades"`
	GroupID    string   `env:"GROUP_ID" envDefault:"kairon-engine"`
}

// Scale returns the configured price scale.
func (c *Config) Scale() fixedpoint.Scale {
	return fixedpoint.Scale(c.Engine.PriceScale)
}

// PublisherEnabled reports whether name is listed in ENGINE_PUBLISHERS.
func (c *Config) PublisherEnabled(name string) bool {
	return slices.Contains(c.Engine.Publishers, name)
}

// Validate checks cross field constraints env tags cannot express.
func (c *Config) Validate() error {
	if err := c.Scale().Validate(); err != nil {
		return err
	}
	if len(c.Engine.Symbols) == 0 {
		return fmt.Errorf("config: ENGINE_SYMBOLS must list at least one symbol")
	}
	if c.Engine.Transport != TransportRedis && c.Engine.Transport != TransportKafka {
		return fmt.Errorf("config: unknown ENGINE_TRANSPORT %q", c.Engine.Transport)
	}
	for _, p := range c.Engine.Publishers {
		switch p {
		case PublisherRedis, PublisherKafka, PublisherWebSocket, PublisherQuestDB:
		default:
			return fmt.Errorf("config: unknown publisher %q", p)
		}
	}
	if c.PublisherEnabled(PublisherQuestDB) && !c.QuestDB.Enabled {
		return fmt.Errorf("config: questdb publisher requires QUESTDB_ENABLED")
	}
	return nil
}
