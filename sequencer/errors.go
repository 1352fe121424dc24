package sequencer

import (
	"errors"
	"fmt"

	"github.com/arloliu/go-iicwave/checker"
)

var (
	// ErrInvalidInvocation indicates an empty checker list, an empty sample
	// stream or a nil checker.
	ErrInvalidInvocation = errors.New("invalid sequencer invocation")

	// ErrAlreadyRun indicates a second call of Sequencer.Run.
	ErrAlreadyRun = errors.New("sequencer already run")
)

var (
	// ErrSequenceExhausted indicates that the sample streams ended while a
	// checker was still waiting for samples.
	ErrSequenceExhausted = errors.New("sample streams exhausted before all checkers finished")
)

// VerifyError describes the sample that failed a verification run.
type VerifyError struct {
	// Index is the index of the offending sample, or the stream length when
	// the streams were exhausted.
	Index int
	// Position is the index of the failing checker in the checker list.
	Position int
	// Checker is the kind of the failing checker.
	Checker checker.Kind
	// State is the last known state of the failing checker.
	State string
	// Err is the reason of the failure.
	Err error
}

func (e *VerifyError) Error() string {
	if errors.Is(e.Err, ErrSequenceExhausted) {
		return fmt.Sprintf("sequencer: %s checker #%d still active after %d samples [%s]: %v",
			e.Checker, e.Position, e.Index, e.State, e.Err)
	}

	return fmt.Sprintf("sequencer: %s checker #%d rejected sample %d [%s]: %v",
		e.Checker, e.Position, e.Index, e.State, e.Err)
}

func (e *VerifyError) Unwrap() error { return e.Err }
