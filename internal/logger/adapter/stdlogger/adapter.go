// Package stdlogger adapts the global zerolog logger to printf and key/value
// style logger interfaces expected by third party packages such as cron.
package stdlogger

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger forwards to the global zerolog logger at call time, so a later
// logger.Init is picked up.
type Logger struct {
	component string
}

// New returns a Logger, the optional component is added to every line.
func New(component ...string) *Logger {
	l := &Logger{}
	if len(component) > 0 {
		l.component = component[0]
	}

	return l
}

func (l *Logger) event(level zerolog.Level) *zerolog.Event {
	e := log.WithLevel(level)
	if l.component != "" {
		e = e.Str("component", l.component)
	}

	return e
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, args ...any) {
	l.event(zerolog.DebugLevel).Msgf(format, args...)
}

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...any) {
	l.event(zerolog.InfoLevel).Msgf(format, args...)
}

// Warningf logs at warn level.
func (l *Logger) Warningf(format string, args ...any) {
	l.event(zerolog.WarnLevel).Msgf(format, args...)
}

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...any) {
	l.event(zerolog.ErrorLevel).Msgf(format, args...)
}

// Printf logs at info level.
func (l *Logger) Printf(format string, args ...any) {
	l.Infof(format, args...)
}

// Info logs msg with key/value pairs at debug level, cron reports every
// schedule tick through it.
func (l *Logger) Info(msg string, keysAndValues ...any) {
	l.fields(l.event(zerolog.DebugLevel), keysAndValues).Msg(msg)
}

// Error logs msg with key/value pairs at error level.
func (l *Logger) Error(err error, msg string, keysAndValues ...any) {
	l.fields(l.event(zerolog.ErrorLevel).Err(err), keysAndValues).Msg(msg)
}

func (l *Logger) fields(e *zerolog.Event, keysAndValues []any) *zerolog.Event {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		e = e.Interface(fmt.Sprint(keysAndValues[i]), keysAndValues[i+1])
	}

	return e
}
