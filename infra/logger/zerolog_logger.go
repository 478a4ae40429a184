package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLevel keeps the command output clean unless asked otherwise.
const DefaultLevel = zerolog.WarnLevel

// ZerologLogger implements Logger using rs/zerolog.
type ZerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger creates a ZerologLogger on stderr. The APP_ENV environment
// variable set to "dev" selects the console format. All logs include the
// provided component field.
func NewZerologLogger(component string, opts Options) (*ZerologLogger, error) {
	return newZerologLogger(os.Stderr, component, opts)
}

func newZerologLogger(out io.Writer, component string, opts Options) (*ZerologLogger, error) {
	level := DefaultLevel
	if opts.Level != "" {
		lvl, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		level = lvl
	}
	env := strings.ToLower(os.Getenv("APP_ENV"))
	if env == "dev" || strings.EqualFold(opts.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	z := zerolog.New(out).Level(level).With().Timestamp().Str("component", component).Logger()
	return &ZerologLogger{log: z}, nil
}

// With returns a child logger for another component sharing the output.
func (l *ZerologLogger) With(component string) *ZerologLogger {
	return &ZerologLogger{log: l.log.With().Str("component", component).Logger()}
}

func (l *ZerologLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *ZerologLogger) Debugw(msg string, fields map[string]any) {
	ev := l.log.Debug()
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

func (l *ZerologLogger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *ZerologLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *ZerologLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}
