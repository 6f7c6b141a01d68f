package auth

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testApp(principal *Principal, handlers ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			switch {
			case errors.Is(err, ErrUnauthenticated):
				return c.SendStatus(fiber.StatusUnauthorized)
			case errors.Is(err, ErrForbidden):
				return c.SendStatus(fiber.StatusForbidden)
			default:
				return c.SendStatus(fiber.StatusInternalServerError)
			}
		},
	})

	app.Use(func(c *fiber.Ctx) error {
		if principal != nil {
			c.Locals(LocalsPrincipal, principal)
		}

		return c.Next()
	})

	handlers = append(handlers, func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	app.Get("/", handlers...)

	return app
}

func TestRequirePolicy(t *testing.T) {
	f := newFixture(t)
	f.grant(t)

	svc := NewService(f.db)
	policy := MustDefaultPolicy()

	holder := FromUser(&f.user)
	disabled := *holder
	disabled.Active = false

	testCases := []struct {
		name      string
		principal *Principal
		op        Operation
		expected  int
	}{
		{"anonymous", nil, OpList, fiber.StatusUnauthorized},
		{"inactive", &disabled, OpList, fiber.StatusUnauthorized},
		{"granted list", holder, OpList, fiber.StatusNoContent},
		{"denied create", holder, OpCreate, fiber.StatusForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := testApp(tc.principal, RequirePolicy(svc, policy, ResourceRole, tc.op))

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, resp.StatusCode)
		})
	}
}

func TestRequirePolicyPanicsOnUnknownRule(t *testing.T) {
	assert.Panics(t, func() {
		RequirePolicy(nil, MustDefaultPolicy(), ResourceRole, OpAssign)
	})
}

func TestRequireSuperuser(t *testing.T) {
	f := newFixture(t)

	su := FromUser(&f.user)
	su.Superuser = true

	testCases := []struct {
		name      string
		principal *Principal
		expected  int
	}{
		{"anonymous", nil, fiber.StatusUnauthorized},
		{"regular", FromUser(&f.user), fiber.StatusForbidden},
		{"superuser", su, fiber.StatusNoContent},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := testApp(tc.principal, RequireSuperuser())

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, resp.StatusCode)
		})
	}
}
