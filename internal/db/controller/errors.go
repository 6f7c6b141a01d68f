// Package controller holds the entity store: one package per model with plain functions over *gorm.DB.
// Every function accepts a transaction handle as well as the root connection.
package controller

import "errors"

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrNotFound is wrapped by every entity specific not found error.
	ErrNotFound = errors.New("not found")
)
