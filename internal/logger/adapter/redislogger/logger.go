// Package redislogger routes go-redis internal logging through zerolog.
package redislogger

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Logger implements the go-redis internal logging interface.
type Logger struct{}

// New returns a go-redis logger, install it with redis.SetLogger.
func New() Logger {
	return Logger{}
}

// Printf implements go-redis logging. go-redis only logs connection trouble, so it is a warning.
func (Logger) Printf(ctx context.Context, format string, v ...any) {
	log.Warn().Ctx(ctx).Str("component", "redis").Msg(fmt.Sprintf(format, v...))
}
