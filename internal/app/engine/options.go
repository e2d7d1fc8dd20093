package engine

import (
	"time"

	"github.com/muhammadchandra19/kairon/pkg/config"
	"github.com/muhammadchandra19/kairon/pkg/fixedpoint"
)

// Options holds configuration options for the engine.
type Options struct {
	// ReadBackoff is how long the order processor waits after a transport error.
	ReadBackoff time.Duration
	// MonitorInterval is how often the market data monitor logs tickers.
	// Zero disables the monitor.
	MonitorInterval time.Duration
	// Scale descales prices in monitor output.
	Scale fixedpoint.Scale
}

// DefaultEngineOptions returns the default engine options.
func DefaultEngineOptions() *Options {
	return &Options{
		ReadBackoff:     100 * time.Millisecond,
		MonitorInterval: 5 * time.Second,
		Scale:           fixedpoint.DefaultScale,
	}
}

// OptionsFromConfig builds engine options from the engine section of cfg.
func OptionsFromConfig(cfg *config.Config) *Options {
	return &Options{
		ReadBackoff:     cfg.Engine.ReadBackoff,
		MonitorInterval: cfg.Engine.MonitorInterval,
		Scale:           cfg.Scale(),
	}
}
