// Package logger provides the structured logging facade used across go-iicwave,
// allowing users to plug in their preferred logging implementation.
//
// The package-level functions log through a default logger which can be
// replaced with SetLogger. NewSlog builds a log/slog based logger that writes
// JSON, or colored console output when ENV=development.
package logger

// Level indicates the logging severity level.
type Level int8

const (
	// DebugLevel traces every finished condition; off by default.
	DebugLevel Level = iota - 1
	// InfoLevel is the default level.
	InfoLevel
	// WarnLevel reports verification failures.
	WarnLevel
	// ErrorLevel reports failures of the tooling itself.
	ErrorLevel
	// FatalLevel logs, then exits the process.
	FatalLevel
)

// String returns the lower-case name of the level.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	case FatalLevel:
		return "fatal"
	default:
		return "unknown"
	}
}

// Logger is the logging facade of go-iicwave. The sequencer and the recorder
// accept any implementation through their WithLogger options.
//
// Every logging method takes a message followed by alternating keys and
// values, merged with the fields bound by With.
type Logger interface {
	// Debug logs per-condition progress.
	Debug(msg string, keysAndValues ...any)
	// Info logs run summaries.
	Info(msg string, keysAndValues ...any)
	// Warn logs rejected samples and exhausted or over-budget runs.
	Warn(msg string, keysAndValues ...any)
	// Error logs failures outside a verification verdict.
	Error(msg string, keysAndValues ...any)
	// Fatal logs msg and exits the process with status 1, whatever the level.
	Fatal(msg string, keysAndValues ...any)
	// With returns a child logger carrying keyValues on every entry.
	// The parent is left untouched.
	With(keyValues ...any) Logger
	// Level reports the lowest level that is written.
	Level() Level
	// SetLevel changes the lowest level that is written.
	SetLevel(level Level)
}
