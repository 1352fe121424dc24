package bus

import (
	"errors"
	"fmt"
)

const (
	// DefaultClockInterval is the default number of ticks in one nominal SCL period.
	DefaultClockInterval uint = 128
	// MinClockInterval is the shortest usable clock interval. Every quarter
	// must span at least two ticks so that a phase can be entered and then held.
	MinClockInterval uint = 8
)

// ErrInvalidClockInterval indicates a clock interval below MinClockInterval or not a multiple of 4.
var ErrInvalidClockInterval = errors.New("clock interval must be a multiple of 4 and at least 8")

// IsValidClockInterval reports whether interval can be split into quarters
// of at least two ticks.
func IsValidClockInterval(interval uint) bool {
	return interval >= MinClockInterval && interval%4 == 0
}

// Quarter identifies one of the four equal subdivisions of a clock period.
type Quarter uint8

const (
	Q1 Quarter = iota + 1
	Q2
	Q3
	Q4
)

// IsValid reports whether q is one of Q1..Q4.
func (q Quarter) IsValid() bool { return q >= Q1 && q <= Q4 }

// String returns the quarter in "Q<n>" form.
func (q Quarter) String() string {
	if !q.IsValid() {
		return "Q?"
	}

	return fmt.Sprintf("Q%d", uint8(q))
}

// Window answers quarter-phase timing queries for a clock period of T ticks.
type Window struct {
	interval   uint
	permissive bool
}

// NewWindow creates a Window for the clock interval T.
//
// If permissive is true, every query of the window returns true.
func NewWindow(interval uint, permissive bool) (Window, error) {
	if !IsValidClockInterval(interval) {
		return Window{}, fmt.Errorf("bus: %w, got %d", ErrInvalidClockInterval, interval)
	}

	return Window{interval: interval, permissive: permissive}, nil
}

// DefaultWindow returns a strict window with DefaultClockInterval.
func DefaultWindow() Window {
	return Window{interval: DefaultClockInterval}
}

// Interval returns the clock interval T.
func (w Window) Interval() uint { return w.interval }

// IsPermissive reports whether timing queries are disabled.
func (w Window) IsPermissive() bool { return w.permissive }

// quarterLen returns T/4.
func (w Window) quarterLen() uint { return w.interval / 4 }

// Bounds returns the first and last tick of quarter q.
func (w Window) Bounds(q Quarter) (first uint, last uint) {
	if !q.IsValid() {
		return 0, 0
	}
	ql := w.quarterLen()

	return uint(q-1) * ql, uint(q)*ql - 1
}

// BeginOf reports whether tick n is the first tick of quarter q.
func (w Window) BeginOf(q Quarter, n uint) bool {
	if w.permissive {
		return true
	}
	if !q.IsValid() {
		return false
	}

	return n == uint(q-1)*w.quarterLen()
}

// Inside reports whether tick n lies before the end of quarter q.
func (w Window) Inside(q Quarter, n uint) bool {
	if w.permissive {
		return true
	}
	if !q.IsValid() {
		return false
	}

	return n < uint(q)*w.quarterLen()
}

// EndOf reports whether tick n is the last tick of quarter q.
func (w Window) EndOf(q Quarter, n uint) bool {
	if w.permissive {
		return true
	}
	if !q.IsValid() {
		return false
	}

	return n == uint(q)*w.quarterLen()-1
}
