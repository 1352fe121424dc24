package sequencer

import (
	"errors"
	"testing"

	"github.com/arloliu/go-iicwave/bus"
	"github.com/arloliu/go-iicwave/checker"
	"github.com/arloliu/go-iicwave/logger"
	"github.com/arloliu/go-iicwave/wavegen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testByte = 0b11011010

func newGen(t *testing.T, opts ...wavegen.Option) *wavegen.Generator {
	t.Helper()

	g, err := wavegen.New(opts...)
	require.NoError(t, err)

	return g
}

// startByteCheckers returns a START checker followed by the eight bit checkers of b.
func startByteCheckers(cfg *checker.Config, b byte) []checker.Checker {
	checkers := []checker.Checker{checker.NewStartChecker(cfg)}
	return append(checkers, checker.NewByteCheckers(cfg, b)...)
}

func quietLogger() *logger.MockLogger {
	return logger.NewMockLogger().AllowAll()
}

func TestSequencer_StartByteRoundTrip(t *testing.T) {
	scl, sda := newGen(t).Start().Byte(testByte).Streams()
	require.Len(t, scl, 96+8*128)

	log := quietLogger()
	s, err := New(startByteCheckers(nil, testByte), scl, sda, WithLogger(log))
	require.NoError(t, err)
	assert.Equal(t, 9, s.Len())

	signals, err := s.Run()
	require.NoError(t, err)
	assert.Equal(t, []checker.Signal{
		checker.SignalStart,
		checker.SignalBit1, checker.SignalBit1, checker.SignalBit0, checker.SignalBit1,
		checker.SignalBit1, checker.SignalBit0, checker.SignalBit1, checker.SignalBit0,
	}, signals)

	b, ok := checker.DecodeByte(signals)
	require.True(t, ok)
	assert.Equal(t, byte(testByte), b)

	m := s.GetMetrics()
	assert.Equal(t, uint64(96+8*128), m.SampleCount.Load())
	assert.Equal(t, uint64(9), m.FinishedCount.Load())
	assert.Zero(t, m.RejectCount.Load())
	assert.Zero(t, m.IgnoredCount.Load())

	log.AssertNumberOfCalls(t, "Debug", 9)
	log.AssertNotCalled(t, "Warn", "sample rejected", mock.Anything)
}

func TestSequencer_FullTransaction(t *testing.T) {
	g := newGen(t).
		Start().Byte(0xA0).Ack().
		RepeatedStart().Byte(0xA1).Ack().
		Byte(0x3C).Bit(bus.Low).
		Stop()
	scl, sda := g.Streams()

	checkers := []checker.Checker{checker.NewStartChecker(nil)}
	checkers = append(checkers, checker.NewByteCheckers(nil, 0xA0)...)
	checkers = append(checkers, checker.NewAckChecker(nil), checker.NewRepeatedStartChecker(nil))
	checkers = append(checkers, checker.NewByteCheckers(nil, 0xA1)...)
	checkers = append(checkers, checker.NewAckChecker(nil))
	checkers = append(checkers, checker.NewByteCheckers(nil, 0x3C)...)
	checkers = append(checkers, checker.NewNackChecker(nil), checker.NewStopChecker(nil))

	signals, err := Verify(checkers, scl, sda, WithLogger(quietLogger()))
	require.NoError(t, err)
	require.Len(t, signals, len(checkers))
	assert.Equal(t, checker.SignalStart, signals[0])
	assert.Equal(t, checker.SignalRepeatedStart, signals[10])
	assert.Equal(t, checker.SignalStop, signals[len(signals)-1])

	b, ok := checker.DecodeByte(signals[11:])
	require.True(t, ok)
	assert.Equal(t, byte(0xA1), b)
}

func TestSequencer_CorruptionNearBoundary(t *testing.T) {
	scl, sda := newGen(t).Start().Byte(testByte).Streams()

	tests := []struct {
		description string
		scl, sda    []bus.Level
		index       int
		position    int
		kind        checker.Kind
		want        error
	}{
		{
			description: "last tick of START",
			scl:         wavegen.Flip(scl, 95), sda: sda,
			index: 95, position: 0, kind: checker.KindStart,
			want: checker.ErrProtocolViolation,
		},
		{
			description: "first tick of the first bit",
			scl:         wavegen.Flip(scl, 96), sda: sda,
			index: 96, position: 1, kind: checker.KindBit,
			want: checker.ErrProtocolViolation,
		},
		{
			description: "third bit sampled high",
			scl:         scl, sda: wavegen.Set(wavegen.Set(sda, 96+2*128+64, bus.High), 96+2*128+65, bus.High),
			index: 96 + 3*128 - 1, position: 3, kind: checker.KindBit,
			want: checker.ErrAmbiguousBitRatio,
		},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			log := quietLogger()
			s, err := New(startByteCheckers(nil, testByte), tt.scl, tt.sda, WithLogger(log))
			require.NoError(t, err)

			signals, err := s.Run()
			require.ErrorIs(t, err, tt.want)

			var verr *VerifyError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.index, verr.Index)
			assert.Equal(t, tt.position, verr.Position)
			assert.Equal(t, tt.kind, verr.Checker)
			assert.NotEmpty(t, verr.State)
			assert.Len(t, signals, tt.position)
			assert.Contains(t, err.Error(), "rejected sample")

			assert.Equal(t, uint64(1), s.GetMetrics().RejectCount.Load())
			log.AssertNumberOfCalls(t, "Warn", 1)
		})
	}
}

func TestSequencer_Exhausted(t *testing.T) {
	scl, sda := newGen(t).Start().Streams()

	tests := []struct {
		description string
		checkers    []checker.Checker
		scl, sda    []bus.Level
		index       int
		position    int
		kind        checker.Kind
	}{
		{
			description: "missing STOP",
			checkers:    []checker.Checker{checker.NewStartChecker(nil), checker.NewStopChecker(nil)},
			scl:         scl, sda: sda,
			index: 96, position: 1, kind: checker.KindStop,
		},
		{
			description: "truncated START",
			checkers:    []checker.Checker{checker.NewStartChecker(nil)},
			scl:         scl[:90], sda: sda[:90],
			index: 90, position: 0, kind: checker.KindStart,
		},
		{
			description: "SDA shorter than SCL",
			checkers:    []checker.Checker{checker.NewStartChecker(nil)},
			scl:         scl, sda: sda[:95],
			index: 95, position: 0, kind: checker.KindStart,
		},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			s, err := New(tt.checkers, tt.scl, tt.sda, WithLogger(quietLogger()))
			require.NoError(t, err)

			_, err = s.Run()
			require.ErrorIs(t, err, ErrSequenceExhausted)
			require.NotErrorIs(t, err, checker.ErrProtocolViolation)

			var verr *VerifyError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.index, verr.Index)
			assert.Equal(t, tt.position, verr.Position)
			assert.Equal(t, tt.kind, verr.Checker)
			assert.Contains(t, err.Error(), "still active")
			assert.Equal(t, uint64(1), s.GetMetrics().ExhaustedCount.Load())
		})
	}
}

func TestSequencer_TrailingSamplesIgnored(t *testing.T) {
	scl, sda := newGen(t).Start().Idle(10, bus.High, bus.Low).Streams()
	scl = append(scl, bus.High, bus.High, bus.High) // longer SCL is truncated

	s, err := New([]checker.Checker{checker.NewStartChecker(nil)}, scl, sda, WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())

	signals, err := s.Run()
	require.NoError(t, err)
	assert.Equal(t, []checker.Signal{checker.SignalStart}, signals)
	assert.Equal(t, uint64(96), s.GetMetrics().SampleCount.Load())
	assert.Equal(t, uint64(10), s.GetMetrics().IgnoredCount.Load())
}

func TestSequencer_PermissiveStretchedClock(t *testing.T) {
	scl, sda := newGen(t, wavegen.WithStretch(3)).Start().Byte(testByte).Streams()

	_, err := Verify(startByteCheckers(nil, testByte), scl, sda, WithLogger(quietLogger()))
	require.ErrorIs(t, err, checker.ErrProtocolViolation)

	cfg, err := checker.NewConfig(checker.WithPermissive(true))
	require.NoError(t, err)

	signals, err := Verify(startByteCheckers(cfg, testByte), scl, sda, WithLogger(quietLogger()))
	require.NoError(t, err)
	b, ok := checker.DecodeByte(signals)
	require.True(t, ok)
	assert.Equal(t, byte(testByte), b)
}

func TestSequencer_RunTwice(t *testing.T) {
	scl, sda := newGen(t).Start().Streams()
	s, err := New([]checker.Checker{checker.NewStartChecker(nil)}, scl, sda, WithLogger(quietLogger()))
	require.NoError(t, err)

	_, err = s.Run()
	require.NoError(t, err)

	signals, err := s.Run()
	require.ErrorIs(t, err, ErrAlreadyRun)
	assert.Nil(t, signals)
}

func TestNew_InvalidInvocation(t *testing.T) {
	scl, sda := newGen(t).Start().Streams()
	start := []checker.Checker{checker.NewStartChecker(nil)}

	tests := []struct {
		description string
		checkers    []checker.Checker
		scl, sda    []bus.Level
		opts        []Option
	}{
		{description: "no checkers", checkers: nil, scl: scl, sda: sda},
		{description: "empty SCL", checkers: start, scl: nil, sda: sda},
		{description: "empty SDA", checkers: start, scl: scl, sda: []bus.Level{}},
		{description: "nil checker", checkers: []checker.Checker{checker.NewStartChecker(nil), nil}, scl: scl, sda: sda},
		{description: "nil logger", checkers: start, scl: scl, sda: sda, opts: []Option{WithLogger(nil)}},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			s, err := New(tt.checkers, tt.scl, tt.sda, tt.opts...)
			require.ErrorIs(t, err, ErrInvalidInvocation)
			assert.Nil(t, s)

			_, err = Verify(tt.checkers, tt.scl, tt.sda, tt.opts...)
			require.ErrorIs(t, err, ErrInvalidInvocation)
		})
	}
}

func TestSequencer_DefaultLogger(t *testing.T) {
	log := quietLogger()
	prev := logger.GetLogger()
	logger.SetLogger(log)
	defer logger.SetLogger(prev)

	scl, sda := newGen(t).Start().Streams()
	_, err := Verify([]checker.Checker{checker.NewStartChecker(nil)}, wavegen.Flip(scl, 10), sda)
	require.Error(t, err)

	log.AssertCalled(t, "Warn", "sample rejected", mock.Anything)
}

func TestVerifyError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &VerifyError{Index: 3, Position: 1, Checker: checker.KindStop, State: "S2", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "sequencer: stop checker #1 rejected sample 3 [S2]: boom", err.Error())
}
