package pattern

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/arloliu/go-iicwave/checker"
)

var (
	// ErrUnknownKeyword indicates a keyword missing from the registry.
	ErrUnknownKeyword = errors.New("unknown keyword")

	// ErrMissingArgument indicates a keyword followed by fewer numbers than its arity.
	ErrMissingArgument = errors.New("missing argument")

	// ErrInvalidArgument indicates a number that does not fit the keyword.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnexpectedToken indicates a token that does not start a keyword.
	ErrUnexpectedToken = errors.New("unexpected token")

	// ErrInvalidKeyword indicates a keyword that cannot be registered.
	ErrInvalidKeyword = errors.New("invalid keyword")
)

// SyntaxError reports the position of a malformed pattern.
type SyntaxError struct {
	Line   int    // 1-based line of the offending token
	Column int    // 1-based column, in runes, of the offending token
	Token  string // offending token text, empty at end of input
	Err    error  // reason
}

func (e *SyntaxError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("pattern: line %d, column %d: %v", e.Line, e.Column, e.Err)
	}

	return fmt.Sprintf("pattern: line %d, column %d near %q: %v", e.Line, e.Column, e.Token, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Parse builds the checkers described by a pattern with the default registry.
// A nil cfg selects checker.DefaultConfig.
func Parse(input string, cfg *checker.Config) ([]checker.Checker, error) {
	return defaultRegistry.Parse(input, cfg)
}

// Parse builds the checkers described by a pattern.
// A nil cfg selects checker.DefaultConfig.
func (r *Registry) Parse(input string, cfg *checker.Config) ([]checker.Checker, error) {
	if cfg == nil {
		cfg = checker.DefaultConfig()
	}

	l := getLexer(input)
	defer putLexer(l)

	checkers := make([]checker.Checker, 0, 8)
	for {
		tok := nextSignificant(l)

		switch tok.typ {
		case tokenTypeEOF:
			return checkers, nil
		case tokenTypeError:
			return nil, newSyntaxError(input, tok.pos, "", errors.New(tok.val))
		case tokenTypeNumber:
			return nil, newSyntaxError(input, tok.pos, tok.val,
				fmt.Errorf("%w: number without keyword", ErrUnexpectedToken))
		}

		f, ok := r.Lookup(tok.val)
		if !ok {
			return nil, newSyntaxError(input, tok.pos, tok.val, ErrUnknownKeyword)
		}

		args := make([]uint64, 0, f.Arity)
		for len(args) < f.Arity {
			arg := nextSignificant(l)
			if arg.typ == tokenTypeError {
				return nil, newSyntaxError(input, arg.pos, "", errors.New(arg.val))
			}
			if arg.typ != tokenTypeNumber {
				return nil, newSyntaxError(input, arg.pos, arg.val,
					fmt.Errorf("%w: %s expects %d number(s), got %s", ErrMissingArgument, tok.val, f.Arity, arg.typ))
			}

			v, err := parseNumber(arg.val)
			if err != nil {
				return nil, newSyntaxError(input, arg.pos, arg.val, fmt.Errorf("%w: %w", ErrInvalidArgument, err))
			}
			args = append(args, v)
		}

		built, err := f.Build(cfg, args...)
		if err != nil {
			return nil, newSyntaxError(input, tok.pos, tok.val, err)
		}
		checkers = append(checkers, built...)
	}
}

// nextSignificant returns the next token that is not a comment.
func nextSignificant(l *lexer) token {
	for {
		tok := l.nextItem()
		if tok.typ != tokenTypeComment {
			return tok
		}
	}
}

// parseNumber parses decimal numbers and numbers with a 0x, 0b or 0o prefix.
// Leading zeros do not select octal.
func parseNumber(s string) (uint64, error) {
	base := 10
	if len(s) > 1 && s[0] == '0' && strings.ContainsRune("xXbBoO", rune(s[1])) {
		base = 0
	}

	return strconv.ParseUint(s, base, 64)
}

func newSyntaxError(input string, pos int, tok string, err error) *SyntaxError {
	line, col := position(input, pos)
	return &SyntaxError{Line: line, Column: col, Token: tok, Err: err}
}

// position converts a byte offset into a 1-based line and rune column.
func position(input string, pos int) (line int, col int) {
	pos = min(max(pos, 0), len(input))
	head := input[:pos]
	line = strings.Count(head, "\n") + 1
	if i := strings.LastIndexByte(head, '\n'); i >= 0 {
		head = head[i+1:]
	}

	return line, utf8.RuneCountInString(head) + 1
}
