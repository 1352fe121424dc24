package logger

import "sync/atomic"

var defLogger atomic.Pointer[Logger]

func init() {
	l := NewSlog(InfoLevel, false)
	defLogger.Store(&l)
}

func current() Logger { return *defLogger.Load() }

func Debug(msg string, keysAndValues ...any) {
	current().Debug(msg, keysAndValues...)
}

func Info(msg string, keysAndValues ...any) {
	current().Info(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...any) {
	current().Warn(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...any) {
	current().Error(msg, keysAndValues...)
}

func Fatal(msg string, keysAndValues ...any) {
	current().Fatal(msg, keysAndValues...)
}

func SetLevel(level Level) {
	current().SetLevel(level)
}

// GetLogger returns the package-level default logger.
func GetLogger() Logger {
	return current()
}

// SetLogger replaces the package-level default logger. It is safe to call
// while other goroutines log. A nil logger is ignored.
func SetLogger(l Logger) {
	if l == nil {
		return
	}
	defLogger.Store(&l)
}

func With(keyValues ...any) Logger {
	return current().With(keyValues...)
}
