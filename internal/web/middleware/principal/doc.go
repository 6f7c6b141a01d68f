// Package principal resolves the request principal from a trusted header.
//
// Authentication happens upstream. A gateway or the token layer in front of
// this service puts the id of the authenticated user into a header, by default
// X-Principal-ID. The middleware loads that user and stores an *auth.Principal
// in fiber.Locals for the authorization middleware and the handlers.
//
// A missing header, a malformed id or an unknown user leave the request
// anonymous. Anonymous requests fail every permission check with 401.
//
// Usage:
//
//	app.Use(principal.New(principal.Config{Header: cfg.Principal.Header, DB: db}))
package principal
