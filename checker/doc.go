// Package checker implements the finite-state verifiers for the legal
// conditions of a two-wire serial bus: START, REPEATED START, STOP and the
// single-bit transfer (which also checks ACK bits).
//
// Every checker consumes one bus.Sample per tick through Update and answers
// with an Outcome. An accepted sample advances the checker; a rejected sample
// leaves it untouched and carries an error wrapping ErrProtocolViolation.
// Once a checker reports Finished, Signal identifies the matched condition and
// any further update is refused with ErrCheckerFinished.
//
// Timing follows the quarter-phase windows of bus.Window: with the default
// clock interval T = 128 a START condition is exactly
//
//	ticks  0..31  scl=1 sda=1
//	ticks 32..63  scl=1 sda=0   (sda falls at the first tick of Q2)
//	ticks 64..95  scl=0 sda=0   (scl falls at the first tick of Q3)
//
// and finishes on tick 95. WithPermissive(true) disables every timing window,
// leaving only the order of edges to be checked; this matches stretched clocks.
//
// A BitChecker measures the duty ratio of SDA while SCL is high (quarters 2
// and 3) and decides the bit at the last tick of quarter 4:
//
//	ratio > high threshold (0.98) and expected 1  -> SignalBit1
//	ratio < low threshold  (0.02) and expected 0  -> SignalBit0
//	otherwise                                      -> ErrAmbiguousBitRatio
package checker
