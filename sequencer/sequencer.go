package sequencer

import (
	"fmt"

	"github.com/arloliu/go-iicwave/bus"
	"github.com/arloliu/go-iicwave/checker"
	"github.com/arloliu/go-iicwave/internal/queue"
	"github.com/arloliu/go-iicwave/logger"
)

// Sequencer feeds SCL/SDA samples to an ordered list of checkers.
//
// A Sequencer runs once and is not safe for concurrent use, except for
// reading its metrics.
type Sequencer struct {
	checkers queue.Queue[checker.Checker]
	total    int
	samples  []bus.Sample
	logger   logger.Logger
	metrics  Metrics
	ran      bool
}

// Option is a functional option for configuring a Sequencer.
type Option interface {
	apply(*Sequencer) error
}

type optFunc func(*Sequencer) error

func (f optFunc) apply(s *Sequencer) error { return f(s) }

// WithLogger sets the logger of the sequencer. The default is the
// package-level logger.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(s *Sequencer) error {
		if l == nil {
			return fmt.Errorf("sequencer: %w: logger must not be nil", ErrInvalidInvocation)
		}
		s.logger = l

		return nil
	})
}

// New creates a Sequencer for the checkers and the SCL/SDA streams.
//
// Streams of different lengths are consumed up to the shorter one. New
// returns ErrInvalidInvocation when checkers or either stream is empty, or
// when a checker is nil.
func New(checkers []checker.Checker, scl, sda []bus.Level, opts ...Option) (*Sequencer, error) {
	if len(checkers) == 0 {
		return nil, fmt.Errorf("sequencer: %w: no checkers", ErrInvalidInvocation)
	}
	if len(scl) == 0 || len(sda) == 0 {
		return nil, fmt.Errorf("sequencer: %w: empty sample stream (scl=%d, sda=%d)",
			ErrInvalidInvocation, len(scl), len(sda))
	}
	for i, c := range checkers {
		if c == nil {
			return nil, fmt.Errorf("sequencer: %w: checker #%d is nil", ErrInvalidInvocation, i)
		}
	}

	s := &Sequencer{
		checkers: queue.NewSliceQueueOf(checkers...),
		total:    len(checkers),
		samples:  bus.Zip(scl, sda),
		logger:   logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Verify creates a Sequencer and runs it.
func Verify(checkers []checker.Checker, scl, sda []bus.Level, opts ...Option) ([]checker.Signal, error) {
	s, err := New(checkers, scl, sda, opts...)
	if err != nil {
		return nil, err
	}

	return s.Run()
}

// GetMetrics returns the metrics of the sequencer.
func (s *Sequencer) GetMetrics() *Metrics {
	return &s.metrics
}

// Len returns the number of checkers in the run.
func (s *Sequencer) Len() int {
	return s.total
}

// Run feeds the samples to the checkers in order.
//
// It returns the signals matched by the finished checkers. On failure the
// error is a *VerifyError and the signals matched before the failure are
// returned alongside it.
func (s *Sequencer) Run() ([]checker.Signal, error) {
	if s.ran {
		return nil, ErrAlreadyRun
	}
	s.ran = true

	signals := make([]checker.Signal, 0, s.total)
	active, _ := s.checkers.Dequeue()
	position := 0

	for i, sample := range s.samples {
		if active == nil {
			ignored := len(s.samples) - i
			s.metrics.addIgnoredCount(ignored)
			s.logger.Debug("trailing samples ignored", "index", i, "count", ignored)

			break
		}

		s.metrics.incSampleCount()
		out := active.Update(sample)
		if out.Rejected() {
			s.metrics.incRejectCount()
			verr := s.failure(i, position, active, out.Err)
			s.logger.Warn("sample rejected",
				"index", i,
				"checker", active.Kind().String(),
				"position", position,
				"sample", sample.String(),
				"state", verr.State,
				"error", out.Err,
			)

			return signals, verr
		}

		if out.Finished {
			s.metrics.incFinishedCount()
			signals = append(signals, active.Signal())
			s.logger.Debug("condition finished",
				"index", i,
				"checker", active.Kind().String(),
				"position", position,
				"signal", active.Signal().String(),
			)

			active, _ = s.checkers.Dequeue()
			position++
		}
	}

	if active != nil {
		s.metrics.incExhaustedCount()
		verr := s.failure(len(s.samples), position, active, ErrSequenceExhausted)
		s.logger.Warn("sample streams exhausted",
			"samples", len(s.samples),
			"checker", active.Kind().String(),
			"position", position,
			"remaining", s.checkers.Length()+1,
		)

		return signals, verr
	}

	return signals, nil
}

func (s *Sequencer) failure(index, position int, c checker.Checker, err error) *VerifyError {
	return &VerifyError{
		Index:    index,
		Position: position,
		Checker:  c.Kind(),
		State:    c.State(),
		Err:      err,
	}
}
