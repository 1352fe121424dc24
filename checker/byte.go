package checker

import "github.com/arloliu/go-iicwave/bus"

// NewByteCheckers returns eight BitCheckers verifying b, most significant bit first.
func NewByteCheckers(cfg *Config, b byte) []Checker {
	checkers := make([]Checker, 0, 8)
	for i := 7; i >= 0; i-- {
		checkers = append(checkers, NewBitChecker(cfg, bus.Level((b>>i)&1)))
	}

	return checkers
}

// NewBitCheckers returns one BitChecker per expected level, in order.
func NewBitCheckers(cfg *Config, bits ...bus.Level) []Checker {
	checkers := make([]Checker, 0, len(bits))
	for _, bit := range bits {
		checkers = append(checkers, NewBitChecker(cfg, bit))
	}

	return checkers
}

// DecodeByte assembles the first eight bit signals, most significant bit first.
// It returns false if fewer than eight bit signals are present.
func DecodeByte(signals []Signal) (byte, bool) {
	var b byte
	n := 0
	for _, sig := range signals {
		if !sig.IsBit() {
			continue
		}
		b <<= 1
		if sig == SignalBit1 {
			b |= 1
		}
		n++
		if n == 8 {
			return b, true
		}
	}

	return 0, false
}
