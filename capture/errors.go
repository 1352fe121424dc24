package capture

import "errors"

var (
	// ErrNilProbe indicates a Recorder created without a probe.
	ErrNilProbe = errors.New("probe is nil")

	// ErrTickBudgetExceeded indicates that the device did not complete within the tick budget.
	ErrTickBudgetExceeded = errors.New("tick budget exceeded before completion")

	// ErrUndrivenLine indicates a tick where SCL or SDA carried no valid logic level,
	// e.g. a released or high-impedance line.
	ErrUndrivenLine = errors.New("bus line not driven")
)
