package sequencer

import (
	"sync/atomic"
)

// Metrics contains atomic counters of a verification run.
// Metrics can be read while Run is in progress on another goroutine.
type Metrics struct {
	// SampleCount indicates the number of samples fed to checkers.
	SampleCount atomic.Uint64
	// IgnoredCount indicates the number of trailing samples left once every checker finished.
	IgnoredCount atomic.Uint64
	// FinishedCount indicates the number of checkers that finished.
	FinishedCount atomic.Uint64
	// RejectCount indicates the number of rejected samples.
	RejectCount atomic.Uint64
	// ExhaustedCount indicates the number of runs that ran out of samples.
	ExhaustedCount atomic.Uint64
}

func (m *Metrics) incSampleCount() {
	m.SampleCount.Add(1)
}

func (m *Metrics) addIgnoredCount(n int) {
	m.IgnoredCount.Add(uint64(n))
}

func (m *Metrics) incFinishedCount() {
	m.FinishedCount.Add(1)
}

func (m *Metrics) incRejectCount() {
	m.RejectCount.Add(1)
}

func (m *Metrics) incExhaustedCount() {
	m.ExhaustedCount.Add(1)
}
