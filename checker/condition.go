package checker

import (
	"fmt"

	"github.com/arloliu/go-iicwave/bus"
)

// edgeDir is the direction of the edge that enters a phase.
type edgeDir uint8

const (
	noEdge edgeDir = iota
	risingEdge
	fallingEdge
)

func (d edgeDir) String() string {
	switch d {
	case risingEdge:
		return "rises"
	case fallingEdge:
		return "falls"
	default:
		return "stays"
	}
}

// levelPhase describes one state of a condition: the levels both lines hold
// while in it, and the single edge that enters it.
type levelPhase struct {
	scl, sda bus.Level
	line     bus.Line
	dir      edgeDir
}

// edgeCounts are the cumulative edge counts expected while in a phase.
type edgeCounts struct {
	sclRising, sclFalling uint
	sdaRising, sdaFalling uint
}

func (e edgeCounts) matches(t bus.Tracker) bool {
	return t.HasEdges(bus.SCL, e.sclRising, e.sclFalling) &&
		t.HasEdges(bus.SDA, e.sdaRising, e.sdaFalling)
}

// conditionProfile is the static description of a START, STOP or REPEATED
// START condition. Phase i (0-based) is held inside quarter i+1 and entered
// at the first tick of that quarter; the condition finishes at the last tick
// of the quarter of its final phase.
type conditionProfile struct {
	kind   Kind
	signal Signal
	phases []levelPhase
	counts []edgeCounts
}

func newConditionProfile(kind Kind, signal Signal, phases ...levelPhase) *conditionProfile {
	p := &conditionProfile{
		kind:   kind,
		signal: signal,
		phases: phases,
		counts: make([]edgeCounts, len(phases)),
	}

	var acc edgeCounts
	for i, ph := range phases {
		switch {
		case ph.line == bus.SCL && ph.dir == risingEdge:
			acc.sclRising++
		case ph.line == bus.SCL && ph.dir == fallingEdge:
			acc.sclFalling++
		case ph.line == bus.SDA && ph.dir == risingEdge:
			acc.sdaRising++
		case ph.line == bus.SDA && ph.dir == fallingEdge:
			acc.sdaFalling++
		}
		p.counts[i] = acc
	}

	return p
}

var (
	startProfile = newConditionProfile(KindStart, SignalStart,
		levelPhase{scl: bus.High, sda: bus.High},
		levelPhase{scl: bus.High, sda: bus.Low, line: bus.SDA, dir: fallingEdge},
		levelPhase{scl: bus.Low, sda: bus.Low, line: bus.SCL, dir: fallingEdge},
	)

	stopProfile = newConditionProfile(KindStop, SignalStop,
		levelPhase{scl: bus.Low, sda: bus.Low},
		levelPhase{scl: bus.High, sda: bus.Low, line: bus.SCL, dir: risingEdge},
		levelPhase{scl: bus.High, sda: bus.High, line: bus.SDA, dir: risingEdge},
	)

	repeatedStartProfile = newConditionProfile(KindRepeatedStart, SignalRepeatedStart,
		levelPhase{scl: bus.Low, sda: bus.High},
		levelPhase{scl: bus.High, sda: bus.High, line: bus.SCL, dir: risingEdge},
		levelPhase{scl: bus.High, sda: bus.Low, line: bus.SDA, dir: fallingEdge},
		levelPhase{scl: bus.Low, sda: bus.Low, line: bus.SCL, dir: fallingEdge},
	)
)

// conditionChecker runs a conditionProfile against the sample stream.
type conditionChecker struct {
	profile  *conditionProfile
	window   bus.Window
	tracker  bus.Tracker
	phase    int // index into profile.phases
	finished bool
}

func newConditionChecker(p *conditionProfile, cfg *Config) conditionChecker {
	return conditionChecker{profile: p, window: orDefault(cfg).Window()}
}

func (c *conditionChecker) update(s bus.Sample) Outcome {
	if c.finished {
		return rejected(finishedError(c.profile.kind, c.tracker))
	}
	if !s.IsValid() {
		return rejected(c.violation(s, ErrInvalidLevel))
	}

	next := c.tracker.Observe(s)
	last := len(c.profile.phases) - 1

	switch {
	case c.holds(next, s, c.phase):
		if c.phase == last && c.window.EndOf(quarterOf(last), c.tracker.Ticks()) {
			c.finished = true
		}
	case c.phase < last && c.enters(next, s, c.phase+1):
		c.phase++
	default:
		return rejected(c.violation(s, ErrProtocolViolation))
	}

	c.tracker = next.Commit(s)

	return accepted(c.finished)
}

// holds reports whether s keeps the checker in phase i.
func (c *conditionChecker) holds(next bus.Tracker, s bus.Sample, i int) bool {
	ph := c.profile.phases[i]

	return s.SCL == ph.scl && s.SDA == ph.sda &&
		c.profile.counts[i].matches(next) &&
		c.tracker.BusUnchanged(s) &&
		c.window.Inside(quarterOf(i), c.tracker.Ticks())
}

// enters reports whether s is the transition into phase i.
func (c *conditionChecker) enters(next bus.Tracker, s bus.Sample, i int) bool {
	ph := c.profile.phases[i]
	other := bus.SDA
	if ph.line == bus.SDA {
		other = bus.SCL
	}

	edge := false
	switch ph.dir {
	case risingEdge:
		edge = c.tracker.Rising(ph.line, s)
	case fallingEdge:
		edge = c.tracker.Falling(ph.line, s)
	}

	return edge &&
		s.SCL == ph.scl && s.SDA == ph.sda &&
		c.profile.counts[i].matches(next) &&
		c.tracker.Unchanged(other, s) &&
		c.window.BeginOf(quarterOf(i), c.tracker.Ticks())
}

func (c *conditionChecker) violation(s bus.Sample, cause error) error {
	msg := fmt.Sprintf("%s: sample %s at tick %d does not hold %s",
		c.profile.kind, s, c.tracker.Ticks(), c.describe(c.phase))
	if c.phase+1 < len(c.profile.phases) {
		ph := c.profile.phases[c.phase+1]
		msg += fmt.Sprintf(" nor enter %s (%s %s at tick %d)",
			c.describe(c.phase+1), ph.line, ph.dir, c.beginTick(c.phase+1))
	}

	return fmt.Errorf("%w: %s", cause, msg)
}

func (c *conditionChecker) beginTick(i int) uint {
	first, _ := c.window.Bounds(quarterOf(i))
	return first
}

func (c *conditionChecker) describe(i int) string {
	ph := c.profile.phases[i]
	return fmt.Sprintf("%s%s", Phase(i+1), bus.NewSample(ph.scl, ph.sda))
}

func (c *conditionChecker) state() string {
	if c.finished {
		return fmt.Sprintf("finished %s", c.tracker)
	}

	return fmt.Sprintf("%s %s", c.describe(c.phase), c.tracker)
}

func (c *conditionChecker) signal() Signal {
	if !c.finished {
		return SignalNone
	}

	return c.profile.signal
}

// quarterOf maps a 0-based phase index to the quarter it is held in.
func quarterOf(i int) bus.Quarter {
	return bus.Quarter(i + 1)
}

// StartChecker verifies a START condition: SDA falls while SCL is high.
//
//	S1 scl=1 sda=1 -> S2 scl=1 sda=0 (sda falls at Q2) -> S3 scl=0 sda=0 (scl falls at Q3)
//
// It finishes on the last tick of quarter 3.
type StartChecker struct {
	c conditionChecker
}

var _ Checker = (*StartChecker)(nil)

// NewStartChecker creates a StartChecker. A nil cfg selects DefaultConfig.
func NewStartChecker(cfg *Config) *StartChecker {
	return &StartChecker{c: newConditionChecker(startProfile, cfg)}
}

func (c *StartChecker) Kind() Kind                  { return KindStart }
func (c *StartChecker) Update(s bus.Sample) Outcome { return c.c.update(s) }
func (c *StartChecker) Finished() bool              { return c.c.finished }
func (c *StartChecker) Signal() Signal              { return c.c.signal() }
func (c *StartChecker) Phase() Phase                { return Phase(c.c.phase + 1) }
func (c *StartChecker) Tracker() bus.Tracker        { return c.c.tracker }
func (c *StartChecker) State() string               { return c.c.state() }

// StopChecker verifies a STOP condition: SDA rises while SCL is high.
//
//	S1 scl=0 sda=0 -> S2 scl=1 sda=0 (scl rises at Q2) -> S3 scl=1 sda=1 (sda rises at Q3)
//
// It finishes on the last tick of quarter 3.
type StopChecker struct {
	c conditionChecker
}

var _ Checker = (*StopChecker)(nil)

// NewStopChecker creates a StopChecker. A nil cfg selects DefaultConfig.
func NewStopChecker(cfg *Config) *StopChecker {
	return &StopChecker{c: newConditionChecker(stopProfile, cfg)}
}

func (c *StopChecker) Kind() Kind                  { return KindStop }
func (c *StopChecker) Update(s bus.Sample) Outcome { return c.c.update(s) }
func (c *StopChecker) Finished() bool              { return c.c.finished }
func (c *StopChecker) Signal() Signal              { return c.c.signal() }
func (c *StopChecker) Phase() Phase                { return Phase(c.c.phase + 1) }
func (c *StopChecker) Tracker() bus.Tracker        { return c.c.tracker }
func (c *StopChecker) State() string               { return c.c.state() }

// RepeatedStartChecker verifies a START condition issued while the bus is
// still active, so SDA starts high with SCL low.
//
//	S1 scl=0 sda=1 -> S2 scl=1 sda=1 (scl rises at Q2)
//	   -> S3 scl=1 sda=0 (sda falls at Q3) -> S4 scl=0 sda=0 (scl falls at Q4)
//
// It finishes on the last tick of quarter 4.
type RepeatedStartChecker struct {
	c conditionChecker
}

var _ Checker = (*RepeatedStartChecker)(nil)

// NewRepeatedStartChecker creates a RepeatedStartChecker. A nil cfg selects DefaultConfig.
func NewRepeatedStartChecker(cfg *Config) *RepeatedStartChecker {
	return &RepeatedStartChecker{c: newConditionChecker(repeatedStartProfile, cfg)}
}

func (c *RepeatedStartChecker) Kind() Kind                  { return KindRepeatedStart }
func (c *RepeatedStartChecker) Update(s bus.Sample) Outcome { return c.c.update(s) }
func (c *RepeatedStartChecker) Finished() bool              { return c.c.finished }
func (c *RepeatedStartChecker) Signal() Signal              { return c.c.signal() }
func (c *RepeatedStartChecker) Phase() Phase                { return Phase(c.c.phase + 1) }
func (c *RepeatedStartChecker) Tracker() bus.Tracker        { return c.c.tracker }
func (c *RepeatedStartChecker) State() string               { return c.c.state() }
