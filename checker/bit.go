package checker

import (
	"fmt"

	"github.com/arloliu/go-iicwave/bus"
)

// BitChecker verifies a single-bit transfer and decides its value from the
// duty ratio of SDA while SCL is high.
//
//	S1 scl=0            quarter 1, SDA free to settle
//	S2 scl=1            scl rises at Q2; quarters 2-3 are sampled
//	S3 scl=0            scl falls at Q4; the bit is decided on its last tick
//
// A BitChecker expecting 1 also verifies ACK bits.
type BitChecker struct {
	window    bus.Window
	highRatio float64
	lowRatio  float64

	expected bus.Level
	tracker  bus.Tracker
	phase    Phase
	finished bool
	signal   Signal

	highCount    uint
	windowLength uint
}

var _ Checker = (*BitChecker)(nil)

// NewBitChecker creates a BitChecker for the expected bit value.
// A nil cfg selects DefaultConfig. Any non-zero expected level means 1.
func NewBitChecker(cfg *Config, expected bus.Level) *BitChecker {
	cfg = orDefault(cfg)
	if expected != bus.Low {
		expected = bus.High
	}

	return &BitChecker{
		window:    cfg.Window(),
		highRatio: cfg.HighRatio(),
		lowRatio:  cfg.LowRatio(),
		expected:  expected,
		phase:     Phase1,
	}
}

// NewAckChecker creates a BitChecker expecting an ACK bit, which is sampled high.
func NewAckChecker(cfg *Config) *BitChecker {
	return NewBitChecker(cfg, bus.High)
}

// NewNackChecker creates a BitChecker expecting a low bit after a byte.
func NewNackChecker(cfg *Config) *BitChecker {
	return NewBitChecker(cfg, bus.Low)
}

func (c *BitChecker) Kind() Kind           { return KindBit }
func (c *BitChecker) Finished() bool       { return c.finished }
func (c *BitChecker) Signal() Signal       { return c.signal }
func (c *BitChecker) Phase() Phase         { return c.phase }
func (c *BitChecker) Tracker() bus.Tracker { return c.tracker }

// Expected returns the expected bit value.
func (c *BitChecker) Expected() bus.Level { return c.expected }

// HighCount returns the number of SCL-high ticks with SDA high.
func (c *BitChecker) HighCount() uint { return c.highCount }

// WindowLength returns the number of SCL-high ticks sampled so far.
func (c *BitChecker) WindowLength() uint { return c.windowLength }

// Ratio returns the current duty ratio, or 0 before any tick was sampled.
func (c *BitChecker) Ratio() float64 {
	if c.windowLength == 0 {
		return 0
	}

	return float64(c.highCount) / float64(c.windowLength)
}

// Update feeds the sample of the next tick.
func (c *BitChecker) Update(s bus.Sample) Outcome {
	if c.finished {
		return rejected(finishedError(KindBit, c.tracker))
	}
	if !s.IsValid() {
		return rejected(c.violation(s, ErrInvalidLevel))
	}

	next := c.tracker.Observe(s)
	n := c.tracker.Ticks()
	phase := c.phase
	sample := false

	switch {
	case c.phase == Phase1 && c.sclHolds(next, s, bus.Low, 0, 0, bus.Q1):
	case c.phase == Phase1 && c.sclEnters(next, s, bus.High, 1, 0, bus.Q2):
		phase = Phase2
		sample = true
	case c.phase == Phase2 && c.sclHolds(next, s, bus.High, 1, 0, bus.Q3):
		sample = true
	case c.phase == Phase2 && c.sclEnters(next, s, bus.Low, 1, 1, bus.Q4):
		phase = Phase3
	case c.phase == Phase3 && c.sclHolds(next, s, bus.Low, 1, 1, bus.Q4):
		if c.window.EndOf(bus.Q4, n) {
			sig, ok := c.decide()
			if !ok {
				return rejected(fmt.Errorf("%w: bit: expected %s, %d of %d SCL-high ticks had SDA high (ratio %.4f)",
					ErrAmbiguousBitRatio, c.expected, c.highCount, c.windowLength, c.Ratio()))
			}
			c.signal = sig
			c.finished = true
		}
	default:
		return rejected(c.violation(s, ErrProtocolViolation))
	}

	c.phase = phase
	if sample {
		c.highCount += uint(s.SDA)
		c.windowLength++
	}
	c.tracker = next.Commit(s)

	return accepted(c.finished)
}

// decide applies the duty-ratio thresholds.
func (c *BitChecker) decide() (Signal, bool) {
	if c.windowLength == 0 {
		return SignalNone, false
	}
	ratio := c.Ratio()

	switch {
	case ratio > c.highRatio && c.expected == bus.High:
		return SignalBit1, true
	case ratio < c.lowRatio && c.expected == bus.Low:
		return SignalBit0, true
	default:
		return SignalNone, false
	}
}

// sclHolds reports whether SCL stays at level inside quarter q with the given edge counts.
func (c *BitChecker) sclHolds(next bus.Tracker, s bus.Sample, level bus.Level, rising, falling uint, q bus.Quarter) bool {
	return s.SCL == level &&
		next.HasEdges(bus.SCL, rising, falling) &&
		c.tracker.Unchanged(bus.SCL, s) &&
		c.window.Inside(q, c.tracker.Ticks())
}

// sclEnters reports whether SCL switches to level exactly at the start of quarter q.
func (c *BitChecker) sclEnters(next bus.Tracker, s bus.Sample, level bus.Level, rising, falling uint, q bus.Quarter) bool {
	edge := c.tracker.Falling(bus.SCL, s)
	if level == bus.High {
		edge = c.tracker.Rising(bus.SCL, s)
	}

	return edge &&
		s.SCL == level &&
		next.HasEdges(bus.SCL, rising, falling) &&
		c.window.BeginOf(q, c.tracker.Ticks())
}

func (c *BitChecker) violation(s bus.Sample, cause error) error {
	return fmt.Errorf("%w: bit: sample %s at tick %d breaks SCL timing in %s",
		cause, s, c.tracker.Ticks(), c.describe())
}

func (c *BitChecker) describe() string {
	switch c.phase {
	case Phase1:
		return "S1(scl=0)"
	case Phase2:
		return "S2(scl=1)"
	default:
		return "S3(scl=0)"
	}
}

// State describes the last known state for diagnostics.
func (c *BitChecker) State() string {
	prefix := c.describe()
	if c.finished {
		prefix = "finished " + c.signal.String()
	}

	return fmt.Sprintf("%s expected=%s high=%d/%d %s",
		prefix, c.expected, c.highCount, c.windowLength, c.tracker)
}
