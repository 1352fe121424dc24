package checker

import (
	"testing"

	"github.com/arloliu/go-iicwave/bus"
	"github.com/arloliu/go-iicwave/wavegen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitChecker_DutyRatio(t *testing.T) {
	tests := []struct {
		description string
		expected    bus.Level
		sent        bus.Level
		glitches    uint
		accept      bool
		signal      Signal
	}{
		{description: "clean 1", expected: bus.High, sent: bus.High, accept: true, signal: SignalBit1},
		{description: "1 with 63 of 64 high", expected: bus.High, sent: bus.High, glitches: 1, accept: true, signal: SignalBit1},
		{description: "1 with 60 of 64 high", expected: bus.High, sent: bus.High, glitches: 4, accept: false},
		{description: "clean 0", expected: bus.Low, sent: bus.Low, accept: true, signal: SignalBit0},
		{description: "0 with 1 of 64 high", expected: bus.Low, sent: bus.Low, glitches: 1, accept: true, signal: SignalBit0},
		{description: "0 with 2 of 64 high", expected: bus.Low, sent: bus.Low, glitches: 2, accept: false},
		{description: "expected 1 got 0", expected: bus.High, sent: bus.Low, accept: false},
		{description: "expected 0 got 1", expected: bus.Low, sent: bus.High, accept: false},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			scl, sda := newGen(t).BitWithGlitches(tt.sent, tt.glitches).Streams()
			c := NewBitChecker(nil, tt.expected)
			res := feed(c, scl, sda)

			assert.Equal(t, uint(64), c.WindowLength())
			if !tt.accept {
				require.ErrorIs(t, res.err, ErrAmbiguousBitRatio)
				require.ErrorIs(t, res.err, ErrProtocolViolation)
				assert.Equal(t, 127, res.rejectedAt, "the bit is decided on the last tick of Q4")
				assert.False(t, c.Finished())
				assert.Equal(t, SignalNone, c.Signal())
				assert.Equal(t, Phase3, c.Phase())

				return
			}

			require.NoError(t, res.err)
			assert.Equal(t, 127, res.finishedAt)
			assert.True(t, c.Finished())
			assert.Equal(t, tt.signal, c.Signal())
			assert.Contains(t, c.State(), "finished "+tt.signal.String())
		})
	}
}

func TestBitChecker_Ratio(t *testing.T) {
	c := NewAckChecker(nil)
	assert.Equal(t, bus.High, c.Expected())
	assert.Zero(t, c.Ratio())

	scl, sda := newGen(t).BitWithGlitches(bus.High, 16).Streams()
	res := feed(c, scl, sda)
	require.ErrorIs(t, res.err, ErrAmbiguousBitRatio)
	assert.Equal(t, uint(48), c.HighCount())
	assert.InDelta(t, 0.75, c.Ratio(), 1e-9)
	assert.Contains(t, res.err.Error(), "48 of 64")

	assert.Equal(t, bus.Low, NewNackChecker(nil).Expected())
	assert.Equal(t, bus.High, NewBitChecker(nil, 7).Expected(), "any non-zero level expects 1")
}

func TestBitChecker_CustomThresholds(t *testing.T) {
	cfg := newTestConfig(t, WithDutyThresholds(0.9, 0.1))

	scl, sda := newGen(t).BitWithGlitches(bus.High, 4).Streams()
	res := feed(NewBitChecker(cfg, bus.High), scl, sda)
	require.NoError(t, res.err)
	assert.Equal(t, 127, res.finishedAt)

	scl, sda = newGen(t).BitWithGlitches(bus.Low, 6).Streams()
	res = feed(NewBitChecker(cfg, bus.Low), scl, sda)
	require.NoError(t, res.err)
}

func TestBitChecker_SDAIsFreeWhileSCLLow(t *testing.T) {
	scl, sda := newGen(t).Bit(bus.High).Streams()
	for _, i := range []int{0, 5, 31, 96, 100, 127} {
		sda = wavegen.Flip(sda, i)
	}

	c := NewBitChecker(nil, bus.High)
	res := feed(c, scl, sda)
	require.NoError(t, res.err)
	assert.Equal(t, 127, res.finishedAt)
	assert.Equal(t, uint(64), c.HighCount())
}

func TestBitChecker_SCLTiming(t *testing.T) {
	tests := []struct {
		description string
		tick        int
	}{
		{description: "first tick of Q1", tick: 0},
		{description: "early rise in Q1", tick: 10},
		{description: "late rise", tick: 32},
		{description: "fall inside the high window", tick: 50},
		{description: "last tick of Q3", tick: 95},
		{description: "late fall", tick: 96},
		{description: "rise in Q4", tick: 110},
		{description: "decision tick", tick: 127},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			scl, sda := newGen(t).Bit(bus.High).Streams()
			c := NewBitChecker(nil, bus.High)
			res := feed(c, wavegen.Flip(scl, tt.tick), sda)

			require.ErrorIs(t, res.err, ErrProtocolViolation)
			require.NotErrorIs(t, res.err, ErrAmbiguousBitRatio)
			assert.Equal(t, tt.tick, res.rejectedAt)
			assert.False(t, c.Finished())
		})
	}
}

func TestBitChecker_RejectionKeepsState(t *testing.T) {
	scl, sda := newGen(t).Bit(bus.High).Streams()
	c := NewBitChecker(nil, bus.High)
	for i := 0; i < 50; i++ {
		require.True(t, c.Update(bus.NewSample(scl[i], sda[i])).Accepted())
	}

	tracker, high, window := c.Tracker(), c.HighCount(), c.WindowLength()
	out := c.Update(bus.NewSample(bus.Low, bus.High))
	require.ErrorIs(t, out.Err, ErrProtocolViolation)

	assert.Equal(t, tracker, c.Tracker())
	assert.Equal(t, high, c.HighCount())
	assert.Equal(t, window, c.WindowLength())
	assert.Equal(t, Phase2, c.Phase())
}

func TestBitChecker_AfterFinishAndInvalid(t *testing.T) {
	c := NewBitChecker(nil, bus.Low)
	out := c.Update(bus.NewSample(bus.Low, 3))
	require.ErrorIs(t, out.Err, ErrInvalidLevel)

	scl, sda := newGen(t).Bit(bus.Low).Streams()
	require.NoError(t, feed(c, scl, sda).err)
	require.True(t, c.Finished())

	out = c.Update(bus.NewSample(bus.Low, bus.Low))
	require.ErrorIs(t, out.Err, ErrCheckerFinished)
}

func TestBitChecker_StretchedClock(t *testing.T) {
	scl, sda := newGen(t, wavegen.WithStretch(5)).Bit(bus.High).Streams()

	res := feed(NewBitChecker(nil, bus.High), scl, sda)
	require.ErrorIs(t, res.err, ErrProtocolViolation)
	assert.Equal(t, 32, res.rejectedAt)

	c := NewBitChecker(newTestConfig(t, WithPermissive(true)), bus.High)
	res = feed(c, scl, sda)
	require.NoError(t, res.err)
	assert.Equal(t, 3*37+1, res.finishedAt)
	assert.Equal(t, uint(2*37), c.WindowLength())
	assert.Equal(t, SignalBit1, c.Signal())
}

func TestByteCheckers(t *testing.T) {
	const value = 0b11011010

	checkers := NewByteCheckers(nil, value)
	require.Len(t, checkers, 8)

	scl, sda := newGen(t).Byte(value).Streams()
	signals := make([]Signal, 0, 8)
	for i, c := range checkers {
		from, to := i*128, (i+1)*128
		res := feed(c, scl[from:to], sda[from:to])
		require.NoError(t, res.err, "bit %d", i)
		require.Equal(t, 127, res.finishedAt, "bit %d", i)
		signals = append(signals, c.Signal())
	}

	b, ok := DecodeByte(signals)
	require.True(t, ok)
	assert.Equal(t, byte(value), b)
}

func TestNewBitCheckers(t *testing.T) {
	checkers := NewBitCheckers(nil, bus.High, bus.Low, bus.High)
	require.Len(t, checkers, 3)

	want := []bus.Level{bus.High, bus.Low, bus.High}
	for i, c := range checkers {
		bc, ok := c.(*BitChecker)
		require.True(t, ok)
		assert.Equal(t, want[i], bc.Expected())
	}
}

func TestDecodeByte(t *testing.T) {
	signals := []Signal{
		SignalStart,
		SignalBit1, SignalBit0, SignalBit1, SignalBit0,
		SignalBit0, SignalBit1, SignalBit0, SignalBit1,
		SignalBit1, // ACK is ignored
		SignalStop,
	}
	b, ok := DecodeByte(signals)
	require.True(t, ok)
	assert.Equal(t, byte(0xA5), b)

	_, ok = DecodeByte([]Signal{SignalBit1, SignalBit0})
	assert.False(t, ok)
}
