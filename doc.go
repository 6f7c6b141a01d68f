// Package main provides the entry point of authcore, a role based authorization
// service. It stores users, roles and permissions with gorm, resolves whether a
// principal holds a permission and records every change to the authorization
// data in an append-only audit trail. The JSON API is served with fiber.
package main
