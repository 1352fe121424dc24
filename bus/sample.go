package bus

import "fmt"

// Level is the logic level of a bus line for one tick.
type Level uint8

const (
	// Low is the logic-0 level.
	Low Level = 0
	// High is the logic-1 level.
	High Level = 1
)

// IsValid reports whether l is either Low or High.
func (l Level) IsValid() bool { return l == Low || l == High }

// String returns "0", "1" or "?" for an invalid level.
func (l Level) String() string {
	switch l {
	case Low:
		return "0"
	case High:
		return "1"
	default:
		return "?"
	}
}

// LevelOf converts a boolean into a Level.
func LevelOf(b bool) Level {
	if b {
		return High
	}

	return Low
}

// Line identifies one of the two bus lines.
type Line uint8

const (
	// SCL is the clock line.
	SCL Line = iota
	// SDA is the data line.
	SDA
)

// String returns the name of the line.
func (l Line) String() string {
	switch l {
	case SCL:
		return "SCL"
	case SDA:
		return "SDA"
	default:
		return "unknown"
	}
}

// Sample is the pair of line levels observed on one tick.
type Sample struct {
	SCL Level
	SDA Level
}

// NewSample creates a Sample from the given SCL and SDA levels.
func NewSample(scl, sda Level) Sample {
	return Sample{SCL: scl, SDA: sda}
}

// Level returns the level of the given line.
func (s Sample) Level(line Line) Level {
	if line == SCL {
		return s.SCL
	}

	return s.SDA
}

// IsValid reports whether both lines carry a valid level.
func (s Sample) IsValid() bool { return s.SCL.IsValid() && s.SDA.IsValid() }

// String returns the sample in "(scl=X,sda=Y)" form.
func (s Sample) String() string {
	return fmt.Sprintf("(scl=%s,sda=%s)", s.SCL, s.SDA)
}

// Zip pairs the SCL and SDA streams into samples.
//
// The result is truncated to the shorter of the two streams.
func Zip(scl, sda []Level) []Sample {
	n := min(len(scl), len(sda))
	samples := make([]Sample, n)
	for i := range n {
		samples[i] = Sample{SCL: scl[i], SDA: sda[i]}
	}

	return samples
}

// Unzip splits samples into the SCL and SDA streams.
func Unzip(samples []Sample) (scl, sda []Level) {
	scl = make([]Level, len(samples))
	sda = make([]Level, len(samples))
	for i, s := range samples {
		scl[i] = s.SCL
		sda[i] = s.SDA
	}

	return scl, sda
}
