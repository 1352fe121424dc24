package checker

import (
	"errors"
	"fmt"
)

var (
	// ErrProtocolViolation indicates that a sample matches neither the current
	// state nor the transition into the next state of a checker. It covers wrong
	// line levels, wrong edge counts and missed timing windows.
	ErrProtocolViolation = errors.New("protocol violation")

	// ErrAmbiguousBitRatio indicates that a BitChecker reached its decision tick
	// with a duty ratio that does not identify the expected bit.
	ErrAmbiguousBitRatio = fmt.Errorf("%w: ambiguous bit duty ratio", ErrProtocolViolation)

	// ErrInvalidLevel indicates a sample carrying a level other than 0 or 1.
	ErrInvalidLevel = fmt.Errorf("%w: invalid line level", ErrProtocolViolation)
)

var (
	// ErrCheckerFinished indicates an update on a checker that already finished.
	ErrCheckerFinished = errors.New("checker already finished")

	// ErrInvalidThreshold indicates duty-ratio thresholds outside 0 <= low < high <= 1.
	ErrInvalidThreshold = errors.New("invalid duty ratio threshold")
)
