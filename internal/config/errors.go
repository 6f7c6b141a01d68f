package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("config webserver.port listening port can not be 0")

	// ErrUnsupportedEngine error if config db.gormEngine names an engine without a driver.
	ErrUnsupportedEngine = errors.New("config db.gormEngine must be one of mysql, postgres, sqlite")

	// ErrUnsupportedCacheBackend error if config cache.backend is unknown.
	ErrUnsupportedCacheBackend = errors.New("config cache.backend must be one of none, memory, redis")

	// ErrRedisAddrEmpty error if the redis cache backend is selected without an address.
	ErrRedisAddrEmpty = errors.New("config cache.redisAddr can not be empty when cache.backend is redis")
)
