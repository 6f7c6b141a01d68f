package config

import "time"

// Supported gorm engines.
const (
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

// DB holds the database configuration settings.
type DB struct {
	Extras     string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	GormEngine string
	// Path is the database file, only used by the sqlite engine.
	Path string
	// SlowThreshold marks queries slower than this as warnings in the log.
	SlowThreshold time.Duration
}
