package bus

import "fmt"

// Tracker holds the per-checker edge bookkeeping: the previous sample, the
// number of rising and falling edges seen on each line, and the number of
// accepted ticks.
//
// The zero value is a tracker that has not seen any sample yet.
type Tracker struct {
	prev    Sample
	hasPrev bool

	sclRising  uint
	sclFalling uint
	sdaRising  uint
	sdaFalling uint

	ticks uint
}

// HasPrevious reports whether a previous sample was committed.
func (t Tracker) HasPrevious() bool { return t.hasPrev }

// Previous returns the previous sample and whether it exists.
func (t Tracker) Previous() (Sample, bool) { return t.prev, t.hasPrev }

// Ticks returns the number of committed ticks.
func (t Tracker) Ticks() uint { return t.ticks }

// RisingCount returns the number of rising edges counted on line.
func (t Tracker) RisingCount(line Line) uint {
	if line == SCL {
		return t.sclRising
	}

	return t.sdaRising
}

// FallingCount returns the number of falling edges counted on line.
func (t Tracker) FallingCount(line Line) uint {
	if line == SCL {
		return t.sclFalling
	}

	return t.sdaFalling
}

// Edges returns the rising and falling edge counts of line.
func (t Tracker) Edges(line Line) (rising uint, falling uint) {
	return t.RisingCount(line), t.FallingCount(line)
}

// HasEdges reports whether line has exactly the given rising and falling counts.
func (t Tracker) HasEdges(line Line, rising uint, falling uint) bool {
	return t.RisingCount(line) == rising && t.FallingCount(line) == falling
}

// Rising reports whether line rises from the previous sample to s.
// It is false when there is no previous sample.
func (t Tracker) Rising(line Line, s Sample) bool {
	if !t.hasPrev {
		return false
	}

	return s.Level(line) > t.prev.Level(line)
}

// Falling reports whether line falls from the previous sample to s.
// It is false when there is no previous sample.
func (t Tracker) Falling(line Line, s Sample) bool {
	if !t.hasPrev {
		return false
	}

	return s.Level(line) < t.prev.Level(line)
}

// Unchanged reports whether line neither rises nor falls.
func (t Tracker) Unchanged(line Line, s Sample) bool {
	return !t.Rising(line, s) && !t.Falling(line, s)
}

// BusUnchanged reports whether both lines are unchanged.
func (t Tracker) BusUnchanged(s Sample) bool {
	return t.Unchanged(SCL, s) && t.Unchanged(SDA, s)
}

// Observe returns a copy of t with the edge counters updated for s.
//
// The previous sample and tick count are left as they are, so the edge
// predicates of the returned tracker still compare against the last
// committed sample.
func (t Tracker) Observe(s Sample) Tracker {
	next := t
	if t.Rising(SCL, s) {
		next.sclRising++
	}
	if t.Falling(SCL, s) {
		next.sclFalling++
	}
	if t.Rising(SDA, s) {
		next.sdaRising++
	}
	if t.Falling(SDA, s) {
		next.sdaFalling++
	}

	return next
}

// Commit returns a copy of t that stores s as the previous sample and
// advances the tick count by one.
func (t Tracker) Commit(s Sample) Tracker {
	next := t
	next.prev = s
	next.hasPrev = true
	next.ticks++

	return next
}

// String returns a compact description used in error reports.
func (t Tracker) String() string {
	return fmt.Sprintf("tick=%d scl(r=%d,f=%d) sda(r=%d,f=%d)",
		t.ticks, t.sclRising, t.sclFalling, t.sdaRising, t.sdaFalling)
}
