package config

import (
	"time"

	"github.com/authcore/authcore/internal/logger"
)

// Cache backends for resolved permission sets.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Cache     Cache
	Principal Principal
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover bool   // disable recover middleware
	Port           int    // listening port for the webserver
	ShutDownTime   int    // wait time for shutdown
	URL            string // base url for the webserver
	CheckAliveURI  string // liveness probe path, excluded from the access log when Log.DisableCheckAlive is set
}

// Cache configures the optional per-user permission cache.
// Backend "none" disables it and every check goes to the database.
type Cache struct {
	Backend   string
	TTL       time.Duration
	Size      int
	RedisAddr string
	RedisDB   int
	KeyPrefix string
}

// Principal configures how the upstream authentication layer hands over the caller identity.
type Principal struct {
	// Header carrying the authenticated user id set by the trusted gateway.
	Header string
}
