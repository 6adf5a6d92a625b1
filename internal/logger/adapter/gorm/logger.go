// Package gorm routes gorm statement logging to zerolog.
package gorm

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DefaultSlowThreshold marks statements logged as slow.
const DefaultSlowThreshold = 200 * time.Millisecond

// Logger implements gorm's logger.Interface.
type Logger struct {
	SlowThreshold time.Duration
	// LogSQL logs every statement at trace level.
	LogSQL bool

	level gormlogger.LogLevel
}

// New creates a gorm logger at warn level.
func New(logSQL bool) *Logger {
	return &Logger{
		SlowThreshold: DefaultSlowThreshold,
		LogSQL:        logSQL,
		level:         gormlogger.Warn,
	}
}

// LogMode returns a copy with the given level.
func (l *Logger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	c := *l
	c.level = level

	return &c
}

// Info logs at info level.
func (l *Logger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		from(ctx).Info().Msgf(msg, data...)
	}
}

// Warn logs at warn level.
func (l *Logger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		from(ctx).Warn().Msgf(msg, data...)
	}
}

// Error logs at error level.
func (l *Logger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		from(ctx).Error().Msgf(msg, data...)
	}
}

// Trace logs a finished statement. Missing records are not errors for the
// repositories, so gorm.ErrRecordNotFound is never logged.
func (l *Logger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)

	var event *zerolog.Event

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= gormlogger.Error:
		event = from(ctx).Error().Err(err)
	case l.SlowThreshold > 0 && elapsed > l.SlowThreshold && l.level >= gormlogger.Warn:
		event = from(ctx).Warn().Str("slow", l.SlowThreshold.String())
	case l.LogSQL:
		event = from(ctx).Trace()
	default:
		return
	}

	sql, rows := fc()

	event.Str("sql", sql).Int64("rows", rows).Dur("elapsed", elapsed).Msg("gorm")
}

// from prefers a logger bound to ctx over the global one.
func from(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
			return l
		}
	}

	return &log.Logger
}
