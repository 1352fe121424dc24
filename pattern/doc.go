// Package pattern builds checker lists from a small textual pattern language
// and from YAML verification plans.
//
// A pattern is a sequence of case-insensitive keywords, some followed by
// numbers. Numbers are decimal or carry a 0x, 0b or 0o prefix. Whitespace,
// commas and semicolons separate items and "//" starts a comment running to
// the end of the line.
//
//	START            // START condition
//	BYTE 0xDA        // eight bits, most significant bit first
//	ACK              // one bit sampled high
//	NACK             // one bit sampled low
//	BIT 0            // one bit of the given value
//	RSTART           // REPEATED START, also REPEATED_START
//	STOP             // STOP condition
//
// Additional keywords can be registered with Register:
//
//	pattern.Register("ADDR_W", pattern.Factory{
//		Arity: 1,
//		Build: func(cfg *checker.Config, args ...uint64) ([]checker.Checker, error) {
//			return checker.NewByteCheckers(cfg, byte(args[0]<<1)), nil
//		},
//	})
//
// A Plan bundles a pattern with its timing configuration:
//
//	name: write register
//	clock_interval: 128
//	permissive: false
//	pattern: START BYTE 0xA0 ACK STOP
package pattern
