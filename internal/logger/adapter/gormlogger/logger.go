// Package gormlogger routes gorm's logger through zerolog.
package gormlogger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Logger implements gorm logger.Interface on top of a zerolog logger.
type Logger struct {
	zl            *zerolog.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

// New returns a gorm logger writing to the global zerolog logger.
// Queries slower than slowThreshold are logged as warnings, 0 disables that.
func New(slowThreshold time.Duration) *Logger {
	return &Logger{
		level:         gormlogger.Warn,
		slowThreshold: slowThreshold,
	}
}

// WithLogger binds the adapter to a specific zerolog logger.
func (l *Logger) WithLogger(zl zerolog.Logger) *Logger {
	c := *l
	c.zl = &zl

	return &c
}

func (l *Logger) logger() *zerolog.Logger {
	if l.zl != nil {
		return l.zl
	}

	return &log.Logger
}

// LogMode implements gormlogger.Interface.
func (l *Logger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	c := *l
	c.level = level

	return &c
}

// Info implements gormlogger.Interface.
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Info {
		l.logger().Info().Ctx(ctx).Msg(fmt.Sprintf(msg, args...))
	}
}

// Warn implements gormlogger.Interface.
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Warn {
		l.logger().Warn().Ctx(ctx).Msg(fmt.Sprintf(msg, args...))
	}
}

// Error implements gormlogger.Interface.
func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Error {
		l.logger().Error().Ctx(ctx).Msg(fmt.Sprintf(msg, args...))
	}
}

// Trace implements gormlogger.Interface.
// Not found errors are expected by callers and only show up at info level.
func (l *Logger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)

	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		l.logger().Error().Ctx(ctx).Err(err).
			Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).
			Msg("gorm query failed")
	case l.slowThreshold != 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		l.logger().Warn().Ctx(ctx).
			Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).
			Dur("threshold", l.slowThreshold).
			Msg("gorm slow query")
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		l.logger().Trace().Ctx(ctx).
			Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).
			Msg("gorm query")
	}
}
