package capture

import (
	"context"
	"errors"
	"fmt"

	"github.com/arloliu/go-iicwave/bus"
	"github.com/arloliu/go-iicwave/logger"
)

const (
	// DefaultTickBudget is the default maximum number of recorded ticks.
	DefaultTickBudget = 5000
	// DefaultCompletionLookahead is the default number of completed ticks recorded before stopping.
	DefaultCompletionLookahead = 3
)

// Probe samples the device under test.
type Probe interface {
	// Sample returns the bus levels of the given tick and whether the device
	// reports completion on that tick.
	Sample(tick int) (s bus.Sample, completed bool, err error)
}

// ProbeFunc adapts a function to the Probe interface.
type ProbeFunc func(tick int) (bus.Sample, bool, error)

// Sample calls f(tick).
func (f ProbeFunc) Sample(tick int) (bus.Sample, bool, error) { return f(tick) }

// Recorder records the SCL/SDA streams of a device under test.
type Recorder struct {
	probe      Probe
	tickBudget int
	lookahead  int
	logger     logger.Logger
}

// Option is a functional option for configuring a Recorder.
type Option interface {
	apply(*Recorder) error
}

type optFunc func(*Recorder) error

func (f optFunc) apply(r *Recorder) error { return f(r) }

// WithTickBudget sets the maximum number of recorded ticks. The default is 5000.
func WithTickBudget(ticks int) Option {
	return optFunc(func(r *Recorder) error {
		if ticks <= 0 {
			return fmt.Errorf("capture: tick budget must be positive, got %d", ticks)
		}
		r.tickBudget = ticks

		return nil
	})
}

// WithCompletionLookahead sets how many ticks flagged as completed are
// recorded before the recorder stops, the first completed tick included.
// The default is 3.
func WithCompletionLookahead(ticks int) Option {
	return optFunc(func(r *Recorder) error {
		if ticks <= 0 {
			return fmt.Errorf("capture: completion look-ahead must be positive, got %d", ticks)
		}
		r.lookahead = ticks

		return nil
	})
}

// WithLogger sets the logger of the recorder. The default is the package-level logger.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(r *Recorder) error {
		if l == nil {
			return errors.New("capture: logger must not be nil")
		}
		r.logger = l

		return nil
	})
}

// NewRecorder creates a Recorder polling probe.
func NewRecorder(probe Probe, opts ...Option) (*Recorder, error) {
	if probe == nil {
		return nil, fmt.Errorf("capture: %w", ErrNilProbe)
	}

	r := &Recorder{
		probe:      probe,
		tickBudget: DefaultTickBudget,
		lookahead:  DefaultCompletionLookahead,
		logger:     logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// TickBudget returns the maximum number of recorded ticks.
func (r *Recorder) TickBudget() int { return r.tickBudget }

// CompletionLookahead returns the number of completed ticks recorded before stopping.
func (r *Recorder) CompletionLookahead() int { return r.lookahead }

// Record polls the probe from tick 0 until completion and returns the recorded streams.
//
// The streams recorded so far are returned alongside any error, which is
// ErrTickBudgetExceeded when the device did not complete in time,
// ErrUndrivenLine for an invalid level, or the error of the probe or ctx.
func (r *Recorder) Record(ctx context.Context) (scl, sda []bus.Level, err error) {
	samples := make([]bus.Sample, 0, min(r.tickBudget, 1024))
	remaining := r.lookahead

	for tick := 0; tick < r.tickBudget; tick++ {
		if err := ctx.Err(); err != nil {
			scl, sda = bus.Unzip(samples)
			return scl, sda, fmt.Errorf("capture: tick %d: %w", tick, err)
		}

		s, completed, err := r.probe.Sample(tick)
		if err != nil {
			scl, sda = bus.Unzip(samples)
			return scl, sda, fmt.Errorf("capture: tick %d: %w", tick, err)
		}
		if !s.IsValid() {
			scl, sda = bus.Unzip(samples)
			return scl, sda, fmt.Errorf("capture: %w: sample %s at tick %d", ErrUndrivenLine, s, tick)
		}
		samples = append(samples, s)

		if !completed {
			continue
		}
		if remaining == r.lookahead {
			r.logger.Debug("device reported completion", "tick", tick)
		}
		remaining--
		if remaining == 0 {
			r.logger.Debug("recording finished", "ticks", len(samples))
			scl, sda = bus.Unzip(samples)

			return scl, sda, nil
		}
	}

	r.logger.Warn("tick budget exceeded", "budget", r.tickBudget, "completed", remaining < r.lookahead)
	scl, sda = bus.Unzip(samples)

	return scl, sda, fmt.Errorf("capture: %w: %d ticks", ErrTickBudgetExceeded, r.tickBudget)
}
