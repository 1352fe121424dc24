package pattern

import (
	"errors"
	"fmt"
	"strings"

	"github.com/arloliu/go-iicwave/checker"
)

// ErrUnsupportedChecker indicates a checker type that has no pattern keyword.
var ErrUnsupportedChecker = errors.New("unsupported checker")

// Format renders checkers as a pattern that Parse turns back into checkers
// of the same kinds and expectations. Bits are written as BIT 0 or BIT 1.
func Format(checkers []checker.Checker) (string, error) {
	words := make([]string, 0, len(checkers))
	for i, c := range checkers {
		switch v := c.(type) {
		case *checker.StartChecker:
			words = append(words, "START")
		case *checker.RepeatedStartChecker:
			words = append(words, "RSTART")
		case *checker.StopChecker:
			words = append(words, "STOP")
		case *checker.BitChecker:
			words = append(words, "BIT "+v.Expected().String())
		default:
			return "", fmt.Errorf("pattern: %w: checker #%d is %T", ErrUnsupportedChecker, i, c)
		}
	}

	return strings.Join(words, " "), nil
}
