// Package daemon wires the configuration into running services.
package daemon

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/authcore/authcore/internal/audit"
	"github.com/authcore/authcore/internal/auth"
	"github.com/authcore/authcore/internal/config"
	"github.com/authcore/authcore/internal/db"
	"github.com/authcore/authcore/internal/rbac"
	"github.com/authcore/authcore/internal/web"
	"github.com/authcore/authcore/internal/web/handler"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *gorm.DB
	closeCache func() error
	webService *web.Service
}

// Start serves HTTP until SIGINT or SIGTERM, then releases every resource.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	err := d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))

	return errors.Join(err, d.Close())
}

// Close releases the database and the cache connection.
func (d *Daemon) Close() error {
	return errors.Join(d.closeCache(), db.Close(d.db))
}

// OpenDB opens and migrates the configured database.
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	gdb, err := db.Open(&cfg.DB)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if err := db.Migrate(gdb); err != nil {
		return nil, errors.Join(err, db.Close(gdb))
	}

	return gdb, nil
}

// NewResolver builds the permission resolver with the configured cache.
func NewResolver(ctx context.Context, cfg *config.Config, gdb *gorm.DB) (*auth.Service, func() error, error) {
	cache, closeCache, err := NewCache(ctx, cfg.Cache)
	if err != nil {
		return nil, closeCache, err
	}

	var opts []auth.Option
	if cache != nil {
		opts = append(opts, auth.WithCache(cache))
	}

	return auth.NewService(gdb, opts...), closeCache, nil
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	policy, err := auth.NewPolicy(auth.DefaultRules())
	if err != nil {
		return nil, fmt.Errorf("policy: %w", err)
	}

	gdb, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}

	authz, closeCache, err := NewResolver(context.Background(), cfg, gdb)
	if err != nil {
		return nil, errors.Join(err, db.Close(gdb))
	}

	deps := &handler.Deps{
		Config: cfg,
		Authz:  authz,
		Policy: policy,
		RBAC:   rbac.NewService(gdb, audit.NewRecorder(), authz),
		Audit:  audit.NewService(gdb),
	}

	log.Info().Str("engine", cfg.DB.GormEngine).Str("cache", cfg.Cache.Backend).
		Int("port", cfg.Webserver.Port).Msg("daemon ready")

	return &Daemon{
		cfg:        cfg,
		db:         gdb,
		closeCache: closeCache,
		webService: web.New(deps, gdb),
	}, nil
}
