// Package sequencer drives an ordered list of checkers over a pair of SCL/SDA
// sample streams.
//
// The first checker receives samples until it finishes, then the next checker
// takes over from the following sample. The first rejected sample aborts the
// run with a *VerifyError that locates the failure:
//
//	checkers := []checker.Checker{checker.NewStartChecker(nil)}
//	checkers = append(checkers, checker.NewByteCheckers(nil, 0xDA)...)
//
//	signals, err := sequencer.Verify(checkers, scl, sda)
//	var verr *sequencer.VerifyError
//	if errors.As(err, &verr) {
//		fmt.Println(verr.Index, verr.Checker, verr.State)
//	}
//
// Samples left over once every checker finished are ignored.
package sequencer
