package logger

import corelogger "github.com/kilianp07/school/core/logger"

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// NopLogger implements Logger with no-op methods.
type NopLogger = corelogger.Nop

// Options select the output of a Logger.
type Options struct {
	// Level is a zerolog level name; empty means warn.
	Level string
	// Format is "json" or "console". APP_ENV=dev forces console.
	Format string
}

// New returns a Logger for the given component writing to stderr.
func New(component string, opts Options) (Logger, error) {
	l, err := NewZerologLogger(component, opts)
	if err != nil {
		return nil, err
	}
	return l, nil
}
