package checker

import (
	"testing"

	"github.com/arloliu/go-iicwave/bus"
	"github.com/arloliu/go-iicwave/wavegen"
	"github.com/stretchr/testify/require"
)

// feedResult reports how a checker consumed a stream.
type feedResult struct {
	finishedAt int // index of the finishing sample, -1 if none
	rejectedAt int // index of the rejected sample, -1 if none
	err        error
}

// feed pushes the streams into c until it finishes or rejects a sample.
func feed(c Checker, scl, sda []bus.Level) feedResult {
	res := feedResult{finishedAt: -1, rejectedAt: -1}
	for i, s := range bus.Zip(scl, sda) {
		out := c.Update(s)
		if out.Rejected() {
			res.rejectedAt = i
			res.err = out.Err
			return res
		}
		if out.Finished {
			res.finishedAt = i
			return res
		}
	}

	return res
}

// newTestConfig creates a Config failing the test on invalid options.
func newTestConfig(t *testing.T, opts ...Option) *Config {
	t.Helper()

	cfg, err := NewConfig(opts...)
	require.NoError(t, err)

	return cfg
}

// newGen creates a waveform generator failing the test on invalid options.
func newGen(t *testing.T, opts ...wavegen.Option) *wavegen.Generator {
	t.Helper()

	g, err := wavegen.New(opts...)
	require.NoError(t, err)

	return g
}
