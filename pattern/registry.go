package pattern

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/arloliu/go-iicwave/bus"
	"github.com/arloliu/go-iicwave/checker"
	"github.com/puzpuzpuz/xsync/v3"
)

// Builder creates the checkers of one keyword from its numeric arguments.
// len(args) always equals the Arity of the registered Factory.
type Builder func(cfg *checker.Config, args ...uint64) ([]checker.Checker, error)

// Factory describes a pattern keyword.
type Factory struct {
	// Arity is the number of numeric arguments following the keyword.
	Arity int
	// Build creates the checkers of the keyword.
	Build Builder
}

var keywordNameRegexp = regexp.MustCompile(`^[A-Za-z_]\w*$`)

// Registry maps keywords to factories. It is safe for concurrent use.
type Registry struct {
	factories *xsync.MapOf[string, Factory]
}

// NewRegistry creates a Registry holding the built-in keywords.
func NewRegistry() *Registry {
	r := &Registry{factories: xsync.NewMapOf[string, Factory]()}
	for name, f := range builtins() {
		r.factories.Store(name, f)
	}

	return r
}

// Register adds or replaces the factory of a keyword. Keywords are case-insensitive.
func (r *Registry) Register(name string, f Factory) error {
	if !keywordNameRegexp.MatchString(name) {
		return fmt.Errorf("pattern: %w: %q", ErrInvalidKeyword, name)
	}
	if f.Build == nil || f.Arity < 0 {
		return fmt.Errorf("pattern: %w: %q needs a builder and a non-negative arity", ErrInvalidKeyword, name)
	}
	r.factories.Store(strings.ToUpper(name), f)

	return nil
}

// Lookup returns the factory of a keyword.
func (r *Registry) Lookup(name string) (Factory, bool) {
	return r.factories.Load(strings.ToUpper(name))
}

// Keywords returns the registered keywords in sorted order.
func (r *Registry) Keywords() []string {
	names := make([]string, 0, r.factories.Size())
	r.factories.Range(func(name string, _ Factory) bool {
		names = append(names, name)
		return true
	})
	slices.Sort(names)

	return names
}

var defaultRegistry = NewRegistry()

// Register adds or replaces a keyword of the default registry.
func Register(name string, f Factory) error {
	return defaultRegistry.Register(name, f)
}

// Lookup returns the factory of a keyword of the default registry.
func Lookup(name string) (Factory, bool) {
	return defaultRegistry.Lookup(name)
}

// Keywords returns the keywords of the default registry in sorted order.
func Keywords() []string {
	return defaultRegistry.Keywords()
}

func single(newChecker func(cfg *checker.Config) checker.Checker) Factory {
	return Factory{
		Build: func(cfg *checker.Config, _ ...uint64) ([]checker.Checker, error) {
			return []checker.Checker{newChecker(cfg)}, nil
		},
	}
}

func builtins() map[string]Factory {
	start := single(func(cfg *checker.Config) checker.Checker { return checker.NewStartChecker(cfg) })
	repeatedStart := single(func(cfg *checker.Config) checker.Checker { return checker.NewRepeatedStartChecker(cfg) })

	return map[string]Factory{
		"START":          start,
		"RSTART":         repeatedStart,
		"REPEATED_START": repeatedStart,
		"STOP":           single(func(cfg *checker.Config) checker.Checker { return checker.NewStopChecker(cfg) }),
		"ACK":            single(func(cfg *checker.Config) checker.Checker { return checker.NewAckChecker(cfg) }),
		"NACK":           single(func(cfg *checker.Config) checker.Checker { return checker.NewNackChecker(cfg) }),
		"BIT": {
			Arity: 1,
			Build: func(cfg *checker.Config, args ...uint64) ([]checker.Checker, error) {
				if args[0] > 1 {
					return nil, fmt.Errorf("%w: bit value %d is neither 0 nor 1", ErrInvalidArgument, args[0])
				}

				return []checker.Checker{checker.NewBitChecker(cfg, bus.Level(args[0]))}, nil
			},
		},
		"BYTE": {
			Arity: 1,
			Build: func(cfg *checker.Config, args ...uint64) ([]checker.Checker, error) {
				if args[0] > 0xFF {
					return nil, fmt.Errorf("%w: byte value %d overflows [0, 256)", ErrInvalidArgument, args[0])
				}

				return checker.NewByteCheckers(cfg, byte(args[0])), nil
			},
		},
	}
}
