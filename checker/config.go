package checker

import (
	"fmt"

	"github.com/arloliu/go-iicwave/bus"
)

// Default duty-ratio thresholds of a BitChecker.
const (
	DefaultHighRatio = 0.98
	DefaultLowRatio  = 0.02
)

// DefaultClockInterval is the default number of ticks of one SCL period.
const DefaultClockInterval = bus.DefaultClockInterval

// Config holds the timing policy shared by the checkers of one verification run.
type Config struct {
	clockInterval uint
	permissive    bool
	highRatio     float64
	lowRatio      float64

	window bus.Window
}

// NewConfig creates a checker configuration.
//
// opts are functional options applied in order; see With* functions.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := &Config{
		clockInterval: DefaultClockInterval,
		highRatio:     DefaultHighRatio,
		lowRatio:      DefaultLowRatio,
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	window, err := bus.NewWindow(cfg.clockInterval, cfg.permissive)
	if err != nil {
		return nil, fmt.Errorf("checker: %w", err)
	}
	cfg.window = window

	return cfg, nil
}

// DefaultConfig returns the strict configuration with a clock interval of 128 ticks.
func DefaultConfig() *Config {
	return &Config{
		clockInterval: DefaultClockInterval,
		highRatio:     DefaultHighRatio,
		lowRatio:      DefaultLowRatio,
		window:        bus.DefaultWindow(),
	}
}

// ClockInterval returns the number of ticks of one SCL period.
func (cfg *Config) ClockInterval() uint { return cfg.clockInterval }

// IsPermissive returns true if timing windows are ignored.
func (cfg *Config) IsPermissive() bool { return cfg.permissive }

// HighRatio returns the duty ratio a 1 bit must exceed.
func (cfg *Config) HighRatio() float64 { return cfg.highRatio }

// LowRatio returns the duty ratio a 0 bit must stay below.
func (cfg *Config) LowRatio() float64 { return cfg.lowRatio }

// Window returns the quarter-phase window built from the configuration.
func (cfg *Config) Window() bus.Window { return cfg.window }

// orDefault returns cfg, or DefaultConfig when cfg is nil.
func orDefault(cfg *Config) *Config {
	if cfg == nil {
		return DefaultConfig()
	}

	return cfg
}

// --- Option ---

// Option is a functional option for configuring a Config.
type Option interface {
	apply(*Config) error
}

type optFunc func(*Config) error

func (f optFunc) apply(cfg *Config) error { return f(cfg) }

// WithClockInterval sets the number of ticks of one SCL period.
// It must be a multiple of 4 and at least bus.MinClockInterval.
func WithClockInterval(ticks uint) Option {
	return optFunc(func(cfg *Config) error {
		if !bus.IsValidClockInterval(ticks) {
			return fmt.Errorf("checker: %w, got %d", bus.ErrInvalidClockInterval, ticks)
		}
		cfg.clockInterval = ticks

		return nil
	})
}

// WithPermissive enables or disables the order-only policy, where every
// timing window query succeeds. Disabled by default.
func WithPermissive(enabled bool) Option {
	return optFunc(func(cfg *Config) error {
		cfg.permissive = enabled

		return nil
	})
}

// WithDutyThresholds sets the duty ratios used by BitChecker decisions.
// A 1 bit needs a ratio above high, a 0 bit a ratio below low.
func WithDutyThresholds(high, low float64) Option {
	return optFunc(func(cfg *Config) error {
		if low < 0 || high > 1 || low >= high {
			return fmt.Errorf("checker: %w: high=%v low=%v", ErrInvalidThreshold, high, low)
		}
		cfg.highRatio = high
		cfg.lowRatio = low

		return nil
	})
}
