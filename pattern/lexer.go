package pattern

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/arloliu/go-iicwave/internal/queue"
)

const eof rune = -1

var tokenPool = sync.Pool{New: func() any { return new(token) }}

func getToken(typ tokenType, val string, pos int) *token {
	t, _ := tokenPool.Get().(*token)
	t.typ = typ
	t.val = val
	t.pos = pos

	return t
}

func putToken(t *token) {
	tokenPool.Put(t)
}

// token represents a tokenized text string that a lexer identified.
type token struct {
	typ tokenType // token type
	val string    // tokenized text
	pos int       // byte offset of the token in the input
}

type tokenType int

const (
	tokenTypeEOF     tokenType = iota // EOF
	tokenTypeError                    // lexing error
	tokenTypeComment                  // starting with '//', ending with newline or EOF
	tokenTypeKeyword                  // [A-Za-z_][A-Za-z0-9_]*, upper-cased
	tokenTypeNumber                   // decimal, hexadecimal, octal or binary number
)

func (t tokenType) String() string {
	switch t {
	case tokenTypeEOF:
		return "EOF"
	case tokenTypeError:
		return "error"
	case tokenTypeComment:
		return "comment"
	case tokenTypeKeyword:
		return "keyword"
	case tokenTypeNumber:
		return "number"
	default:
		return "unknown"
	}
}

// lexer represents the state of the lexical scanner.
type lexer struct {
	input         string  // input string being lexed
	lastState     stateFn // last lexing state function
	state         stateFn // next lexing state function to enter
	pos           int     // current position in the input
	start         int     // start position of a token being lexed in input string
	width         int     // width of last rune read from input
	keywordRegexp *regexp.Regexp
	tokens        queue.Queue[*token]
}

var lexerPool = sync.Pool{New: func() any { return newLexer("") }}

func getLexer(input string) *lexer {
	l, _ := lexerPool.Get().(*lexer)
	l.input = input
	l.state = lexPattern

	return l
}

func putLexer(l *lexer) {
	l.input = ""
	l.pos = 0
	l.start = 0
	l.width = 0
	l.lastState = nil
	l.tokens.Reset()
	lexerPool.Put(l)
}

// newLexer creates a new scanner for the input string.
func newLexer(input string) *lexer {
	return &lexer{
		input:         input,
		state:         lexPattern,
		tokens:        queue.NewSliceQueue[*token](4),
		keywordRegexp: regexp.MustCompile(`^[A-Za-z_]\w*`),
	}
}

// next returns the next rune in the input and move position.
func (l *lexer) next() (r rune) {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}

	r, l.width = utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += l.width

	return r
}

// ignore skips over the pending input before this point.
func (l *lexer) ignore() {
	l.start = l.pos
}

// back steps back one rune.
func (l *lexer) back() {
	l.pos -= l.width
}

// peek returns the next rune in the input.
func (l *lexer) peek() rune {
	r := l.next()
	l.back()

	return r
}

// emit passes a token to the client.
func (l *lexer) emit(t tokenType) {
	l.tokens.Enqueue(getToken(t, l.input[l.start:l.pos], l.start))
	l.start = l.pos
}

// emitUppercase passes a token with a uppercase token value to the client.
func (l *lexer) emitUppercase(t tokenType) {
	l.tokens.Enqueue(getToken(t, strings.ToUpper(l.input[l.start:l.pos]), l.start))
	l.start = l.pos
}

// accept consumes the next rune if it's from the valid set.
func (l *lexer) accept(valid string) bool {
	if strings.ContainsRune(valid, l.next()) {
		return true
	}
	l.back()

	return false
}

// acceptRun consumes a run of runes from the valid set.
func (l *lexer) acceptRun(valid string) {
	for strings.ContainsRune(valid, l.next()) {
	}
	l.back()
}

// errorf returns an error token and terminates the running lexer.
func (l *lexer) errorf(format string, args ...any) stateFn {
	l.tokens.Enqueue(getToken(tokenTypeError, fmt.Sprintf(format, args...), l.start))
	return l.terminate()
}

// nextToken returns the next token from the input.
// Once the lexer terminated, it keeps returning EOF tokens.
func (l *lexer) nextToken() *token {
	for {
		if !l.tokens.IsEmpty() {
			t, _ := l.tokens.Dequeue()
			if t == nil {
				return getToken(tokenTypeEOF, "", len(l.input))
			}

			return t
		}

		if l.state == nil {
			return getToken(tokenTypeEOF, "", len(l.input))
		}
		l.lastState, l.state = l.state, l.state(l)
	}
}

// nextItem returns a copy of the next token and recycles the pooled one.
func (l *lexer) nextItem() token {
	t := l.nextToken()
	item := *t
	putToken(t)

	return item
}

// stateFn represents the state of the lexer as a function that returns the next state
type stateFn func(*lexer) stateFn

// terminate marks the end of the token stream and stops the scan by passing
// back a nil pointer as the next state function.
func (l *lexer) terminate() stateFn {
	l.tokens.Enqueue(nil)
	return nil
}

// lexPattern scans keywords, their numeric arguments and comments.
func lexPattern(l *lexer) stateFn {
	for {
		// Handle a line comment
		if strings.HasPrefix(l.input[l.pos:], "//") {
			return lexComment
		}

		// Handle keywords
		if loc := l.keywordRegexp.FindStringIndex(l.input[l.pos:]); loc != nil {
			l.pos += loc[1]
			l.emitUppercase(tokenTypeKeyword)

			return lexPattern
		}

		r := l.next()
		if isDigit(r) {
			l.back()
			return lexNumber
		}

		switch r {
		case eof:
			return lexEOF
		case ' ', '\t', '\r', '\n', ',', ';':
			l.ignore()
		default:
			return l.errorf("unexpected character %#U", r)
		}
	}
}

// lexEOF scans a EOF which is known to be present, and terminates the running lexer.
func lexEOF(l *lexer) stateFn {
	l.tokens.Enqueue(getToken(tokenTypeEOF, "", l.pos))
	l.start = l.pos

	return l.terminate()
}

// lexComment scans a line comment.
// The line comment delimiter "//" is known to be present.
func lexComment(l *lexer) stateFn {
	i := strings.IndexByte(l.input[l.pos:], '\n')
	if i < 0 {
		l.pos = len(l.input)
		l.emit(tokenTypeComment)

		return lexEOF
	}

	l.pos += i
	l.emit(tokenTypeComment)

	return l.lastState
}

// lexNumber scans an unsigned number, which is known to be present.
func lexNumber(l *lexer) stateFn {
	digits := "0123456789" // default is decimal
	if l.accept("0") {
		if l.accept("xX") {
			digits = "0123456789abcdefABCDEF"
		} else if l.accept("bB") {
			digits = "01"
		} else if l.accept("oO") {
			digits = "01234567"
		}
	}
	l.acceptRun(digits)

	// Next thing must not be alphanumeric
	if isAlphaNumeric(l.peek()) {
		l.next()
		return l.errorf("invalid number syntax: %q", l.input[l.start:l.pos])
	}

	l.emit(tokenTypeNumber)

	return lexPattern
}

// Helper functions

// isAlphaNumeric reports whether r is an alphabetic, digit, or underscore.
func isAlphaNumeric(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// isDigit reports whether r is a digit.
func isDigit(r rune) bool {
	return ('0' <= r && r <= '9')
}
