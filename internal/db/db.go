// Package db opens the gorm connection for the configured engine and migrates the schema.
package db

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/authcore/authcore/internal/config"
	"github.com/authcore/authcore/internal/db/dsn"
	"github.com/authcore/authcore/internal/db/models"
	"github.com/authcore/authcore/internal/logger/adapter/gormlogger"
)

// Open connects to the database selected by cfg.GormEngine.
func Open(cfg *config.DB) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.GormEngine {
	case config.EngineMySQL:
		dialector = mysql.Open(dsn.Create(cfg))
	case config.EnginePostgres:
		dialector = postgres.Open(dsn.CreatePostgres(cfg))
	case config.EngineSQLite:
		dialector = sqlite.Open(dsn.CreateSQLite(cfg))
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnsupportedEngine, cfg.GormEngine)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.New(cfg.SlowThreshold),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.GormEngine, err)
	}

	if cfg.GormEngine == config.EngineSQLite {
		// sqlite serialises writers, a single connection avoids SQLITE_BUSY inside transactions.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite pool: %w", err)
		}

		sqlDB.SetMaxOpenConns(1)
	}

	log.Info().Str("engine", cfg.GormEngine).Msg("database connected")

	return db, nil
}

// Migrate creates or updates the schema of all models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err //nolint:wrapcheck
	}

	return sqlDB.Close() //nolint:wrapcheck
}
