package capture

import "github.com/arloliu/go-iicwave/bus"

// ReplayProbe replays recorded or generated samples as a Probe.
//
// Ticks past the end of the samples repeat the last sample, or an idle bus
// when there are no samples.
type ReplayProbe struct {
	samples    []bus.Sample
	completeAt int
}

var _ Probe = (*ReplayProbe)(nil)

// NewReplayProbe creates a ReplayProbe that reports completion from tick
// completeAt on. A negative completeAt never reports completion.
func NewReplayProbe(samples []bus.Sample, completeAt int) *ReplayProbe {
	return &ReplayProbe{samples: samples, completeAt: completeAt}
}

// Sample implements Probe.
func (p *ReplayProbe) Sample(tick int) (bus.Sample, bool, error) {
	completed := p.completeAt >= 0 && tick >= p.completeAt

	switch {
	case len(p.samples) == 0:
		return bus.NewSample(bus.High, bus.High), completed, nil
	case tick < 0:
		return p.samples[0], completed, nil
	case tick >= len(p.samples):
		return p.samples[len(p.samples)-1], completed, nil
	default:
		return p.samples[tick], completed, nil
	}
}
