package principal

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/authcore/authcore/internal/auth"
	"github.com/authcore/authcore/internal/db/controller"
	"github.com/authcore/authcore/internal/db/controller/user"
)

// DefaultHeader carries the principal id when Config.Header is empty.
const DefaultHeader = "X-Principal-ID"

// Config of the middleware.
type Config struct {
	// Next skips the middleware when it returns true.
	Next func(c *fiber.Ctx) bool
	// Header carries the user id.
	Header string
	// DB loads the user.
	DB *gorm.DB
}

// New creates the middleware.
func New(cfg Config) fiber.Handler {
	if cfg.DB == nil {
		panic("principal middleware: db cannot be nil")
	}

	if cfg.Header == "" {
		cfg.Header = DefaultHeader
	}

	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		raw := strings.TrimSpace(c.Get(cfg.Header))
		if raw == "" {
			return c.Next()
		}

		id, err := uuid.Parse(raw)
		if err != nil {
			log.Debug().Str("header", cfg.Header).Msg("malformed principal id, request stays anonymous")

			return c.Next()
		}

		u, err := user.Get(cfg.DB.WithContext(c.UserContext()), id)
		if err != nil {
			if errors.Is(err, controller.ErrNotFound) {
				log.Debug().Str("user_id", id.String()).Msg("unknown principal, request stays anonymous")

				return c.Next()
			}

			return err //nolint:wrapcheck
		}

		c.Locals(auth.LocalsPrincipal, auth.FromUser(u))

		return c.Next()
	}
}
