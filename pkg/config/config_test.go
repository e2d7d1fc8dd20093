package config

import (
	"testing"
	"time"

	"github.com/muhammadchandra19/kairon/pkg/fixedpoint"
	"github.com/muhammadchandra19/kairon/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, Load(cfg))

	assert.Equal(t, "kairon-engine", cfg.App.Name)
	assert.Equal(t, 8080, cfg.App.HTTPPort)
	assert.Equal(t, []string{"BTC"}, cfg.Engine.Symbols)
	assert.Equal(t, fixedpoint.DefaultScale, cfg.Scale())
	assert.Equal(t, TransportRedis, cfg.Engine.Transport)
	assert.Equal(t, 100*time.Millisecond, cfg.Engine.ReadBackoff)
	assert.Equal(t, redis.Standalone, cfg.Redis.Mode)
	assert.Equal(t, "orders:", cfg.Redis.OrderQueuePrefix)
	assert.Equal(t, "trade-updates", cfg.Redis.TradeChannel)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.False(t, cfg.QuestDB.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("ENGINE_SYMBOLS", "BTC,ETH")
	t.Setenv("ENGINE_TRANSPORT", "kafka")
	t.Setenv("ENGINE_PRICE_SCALE", "100")
	t.Setenv("REDIS_ADDRS", "redis-1:6379,redis-2:6379")
	t.Setenv("QUESTDB_ENABLED", "true")
	t.Setenv("ENGINE_PUBLISHERS", "kafka,questdb")

	cfg := &Config{}
	require.NoError(t, Load(cfg))

	assert.Equal(t, []string{"BTC", "ETH"}, cfg.Engine.Symbols)
	assert.Equal(t, TransportKafka, cfg.Engine.Transport)
	assert.Equal(t, fixedpoint.Scale(100), cfg.Scale())
	assert.Equal(t, []string{"redis-1:6379", "redis-2:6379"}, cfg.Redis.Addrs)
	assert.True(t, cfg.PublisherEnabled(PublisherQuestDB))
	assert.False(t, cfg.PublisherEnabled(PublisherRedis))
	assert.NoError(t, cfg.Validate())
}

func TestMustLoad(t *testing.T) {
	t.Run("loads defaults", func(t *testing.T) {
		cfg := &Config{}
		assert.NotPanics(t, func() { MustLoad(cfg) })
		assert.Equal(t, fixedpoint.DefaultScale, cfg.Scale())
	})

	t.Run("panics on unparsable value", func(t *testing.T) {
		t.Setenv("ENGINE_PRICE_SCALE", "ten")
		assert.Panics(t, func() { MustLoad(&Config{}) })
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		require.NoError(t, Load(cfg))
		return cfg
	}

	testCases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "zero scale", mutate: func(c *Config) { c.Engine.PriceScale = 0 }},
		{name: "no symbols", mutate: func(c *Config) { c.Engine.Symbols = nil }},
		{name: "unknown transport", mutate: func(c *Config) { c.Engine.Transport = "nats" }},
		{name: "unknown publisher", mutate: func(c *Config) { c.Engine.Publishers = []string{"stdout"} }},
		{name: "questdb publisher without questdb", mutate: func(c *Config) { c.Engine.Publishers = []string{PublisherQuestDB} }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
