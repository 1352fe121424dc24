package checker

import (
	"fmt"

	"github.com/arloliu/go-iicwave/bus"
)

// Kind identifies the bus condition verified by a checker.
type Kind uint8

const (
	KindStart Kind = iota + 1
	KindStop
	KindRepeatedStart
	KindBit
)

// String returns string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindStop:
		return "stop"
	case KindRepeatedStart:
		return "repeated-start"
	case KindBit:
		return "bit"
	default:
		return "unknown"
	}
}

// Signal identifies the condition or bit value a finished checker matched.
type Signal uint8

const (
	// SignalNone is reported by checkers that have not finished.
	SignalNone Signal = iota
	SignalStart
	SignalStop
	SignalRepeatedStart
	SignalBit1
	SignalBit0
)

// String returns string representation of the signal.
func (s Signal) String() string {
	switch s {
	case SignalNone:
		return "none"
	case SignalStart:
		return "START"
	case SignalStop:
		return "STOP"
	case SignalRepeatedStart:
		return "RSTART"
	case SignalBit1:
		return "1"
	case SignalBit0:
		return "0"
	default:
		return "unknown"
	}
}

// IsBit reports whether s is a bit value.
func (s Signal) IsBit() bool { return s == SignalBit1 || s == SignalBit0 }

// Phase is the state of a checker's finite-state machine. Phases are numbered
// from 1 and never decrease during the lifetime of a checker.
type Phase uint8

const (
	Phase1 Phase = iota + 1
	Phase2
	Phase3
	Phase4
)

// String returns the phase in "S<n>" form.
func (p Phase) String() string {
	return fmt.Sprintf("S%d", uint8(p))
}

// Outcome is the result of feeding one sample to a checker.
//
// A nil Err means the sample was accepted; Finished then reports whether it
// completed the condition. A non-nil Err means the sample was rejected and the
// checker state is unchanged.
type Outcome struct {
	Finished bool
	Err      error
}

// Accepted reports whether the sample was accepted.
func (o Outcome) Accepted() bool { return o.Err == nil }

// Rejected reports whether the sample was rejected.
func (o Outcome) Rejected() bool { return o.Err != nil }

func accepted(finished bool) Outcome { return Outcome{Finished: finished} }

func rejected(err error) Outcome { return Outcome{Err: err} }

// Checker verifies one bus condition, one sample per tick.
//
// A Checker is owned by a single caller and is not safe for concurrent use.
type Checker interface {
	// Kind returns the condition verified by the checker.
	Kind() Kind
	// Update feeds the sample of the next tick.
	Update(s bus.Sample) Outcome
	// Finished reports whether the condition was completely matched.
	Finished() bool
	// Signal returns the matched signal, or SignalNone before the checker finished.
	Signal() Signal
	// Phase returns the current state of the checker.
	Phase() Phase
	// Tracker returns the edge bookkeeping of the checker.
	Tracker() bus.Tracker
	// State describes the last known state for diagnostics.
	State() string
}

// KindOf returns the kind of c, or zero for a nil checker.
func KindOf(c Checker) Kind {
	if c == nil {
		return 0
	}

	return c.Kind()
}

// finishedError builds the error returned for updates after completion.
func finishedError(k Kind, t bus.Tracker) error {
	return fmt.Errorf("%s checker at tick %d: %w", k, t.Ticks(), ErrCheckerFinished)
}
