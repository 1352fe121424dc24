// Package wavegen synthesizes ideal SCL/SDA sample streams for the bus
// conditions verified by package checker.
//
// A Generator appends one condition after the other, each lasting the exact
// number of ticks the strict checkers expect (3/4 of a clock period for START
// and STOP, a full period for REPEATED START and bit transfers). Streams can
// be stretched, to exercise the permissive policy, and corrupted with Flip or
// Set to exercise rejection paths.
//
//	g, _ := wavegen.New()
//	scl, sda := g.Start().Byte(0xDA).Ack().Stop().Streams()
package wavegen

import (
	"fmt"

	"github.com/arloliu/go-iicwave/bus"
	"github.com/arloliu/go-iicwave/internal/util"
)

// Generator builds a sample stream condition by condition.
type Generator struct {
	interval uint
	stretch  uint
	samples  []bus.Sample
}

// Option is a functional option for configuring a Generator.
type Option interface {
	apply(*Generator) error
}

type optFunc func(*Generator) error

func (f optFunc) apply(g *Generator) error { return f(g) }

// WithClockInterval sets the number of ticks of one SCL period.
// It must be a multiple of 4 and at least bus.MinClockInterval. The default is 128.
func WithClockInterval(ticks uint) Option {
	return optFunc(func(g *Generator) error {
		if !bus.IsValidClockInterval(ticks) {
			return fmt.Errorf("wavegen: %w, got %d", bus.ErrInvalidClockInterval, ticks)
		}
		g.interval = ticks

		return nil
	})
}

// WithStretch adds extra ticks to every quarter, which models a slowed or
// stretched clock. Strict checkers reject such streams; permissive ones accept them.
func WithStretch(ticks uint) Option {
	return optFunc(func(g *Generator) error {
		g.stretch = ticks

		return nil
	})
}

// New creates a Generator.
func New(opts ...Option) (*Generator, error) {
	g := &Generator{interval: bus.DefaultClockInterval}
	for _, opt := range opts {
		if err := opt.apply(g); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// quarter returns the number of ticks of one quarter, stretch included.
func (g *Generator) quarter() int {
	return int(g.interval/4 + g.stretch)
}

// hold appends n ticks of the given levels.
func (g *Generator) hold(n int, scl, sda bus.Level) {
	g.samples = append(g.samples, util.Repeat(bus.NewSample(scl, sda), n)...)
}

// Start appends a START condition: SDA falls while SCL is high.
func (g *Generator) Start() *Generator {
	q := g.quarter()
	g.hold(q, bus.High, bus.High)
	g.hold(q, bus.High, bus.Low)
	g.hold(q, bus.Low, bus.Low)

	return g
}

// Stop appends a STOP condition: SDA rises while SCL is high.
func (g *Generator) Stop() *Generator {
	q := g.quarter()
	g.hold(q, bus.Low, bus.Low)
	g.hold(q, bus.High, bus.Low)
	g.hold(q, bus.High, bus.High)

	return g
}

// RepeatedStart appends a REPEATED START condition.
func (g *Generator) RepeatedStart() *Generator {
	q := g.quarter()
	g.hold(q, bus.Low, bus.High)
	g.hold(q, bus.High, bus.High)
	g.hold(q, bus.High, bus.Low)
	g.hold(q, bus.Low, bus.Low)

	return g
}

// Bit appends a single-bit transfer holding SDA at b for the whole period.
func (g *Generator) Bit(b bus.Level) *Generator {
	return g.BitWithGlitches(b, 0)
}

// BitWithGlitches appends a single-bit transfer of b whose last glitches
// SCL-high ticks carry the opposite level on SDA.
func (g *Generator) BitWithGlitches(b bus.Level, glitches uint) *Generator {
	q := g.quarter()
	high := 2 * q
	bad := min(int(glitches), high)
	other := bus.High
	if b == bus.High {
		other = bus.Low
	}

	g.hold(q, bus.Low, b)
	g.hold(high-bad, bus.High, b)
	g.hold(bad, bus.High, other)
	g.hold(q, bus.Low, b)

	return g
}

// Byte appends the eight bits of b, most significant bit first.
func (g *Generator) Byte(b byte) *Generator {
	for i := 7; i >= 0; i-- {
		g.Bit(bus.Level((b >> i) & 1))
	}

	return g
}

// Ack appends an ACK bit, sampled high.
func (g *Generator) Ack() *Generator {
	return g.Bit(bus.High)
}

// Idle appends n ticks of the given levels.
func (g *Generator) Idle(n int, scl, sda bus.Level) *Generator {
	g.hold(n, scl, sda)

	return g
}

// Len returns the number of generated ticks.
func (g *Generator) Len() int { return len(g.samples) }

// Reset discards the generated samples.
func (g *Generator) Reset() *Generator {
	g.samples = g.samples[:0]

	return g
}

// Samples returns a copy of the generated samples.
func (g *Generator) Samples() []bus.Sample {
	return util.CloneSlice(g.samples, 0)
}

// Streams returns the generated SCL and SDA streams.
func (g *Generator) Streams() (scl, sda []bus.Level) {
	return bus.Unzip(g.samples)
}

// Flip returns a copy of the stream with the level at index inverted.
// Out of range indexes leave the copy unchanged.
func Flip(stream []bus.Level, index int) []bus.Level {
	out := util.CloneSlice(stream, 0)
	if index >= 0 && index < len(out) {
		out[index] ^= 1
	}

	return out
}

// Set returns a copy of the stream with the level at index replaced by level.
func Set(stream []bus.Level, index int, level bus.Level) []bus.Level {
	out := util.CloneSlice(stream, 0)
	if index >= 0 && index < len(out) {
		out[index] = level
	}

	return out
}
