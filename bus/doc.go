// Package bus provides the tick-level primitives of a two-wire serial bus
// (SCL clock line, SDA data line) used by the condition checkers.
//
// A Sample holds the levels of both lines for one tick. A Tracker remembers the
// previous sample of a checker and counts the rising and falling edges seen on
// each line. A Window splits the nominal bus clock period T into four quarters
// and answers begin/inside/end queries against a tick count:
//
//   - BeginOf(q, n): n == (q-1)*T/4
//   - Inside(q, n):  n <  q*T/4
//   - EndOf(q, n):   n == q*T/4 - 1
//
// A permissive Window answers true to every query, which removes timing as a
// rejection criterion and leaves only the order of edges.
//
// Tracker and Window values are immutable: every update returns a new value,
// so a checker can evaluate a sample against a candidate state and keep the
// old one when the sample is rejected.
package bus
