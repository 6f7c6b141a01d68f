package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/authcore/authcore/internal/daemon"
	"github.com/authcore/authcore/internal/db"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:     "migrate",
	Short:   "Create or update the database schema",
	PreRunE: loadConfig,
	RunE: func(_ *cobra.Command, _ []string) error {
		gdb, err := daemon.OpenDB(&cfg)
		if err != nil {
			return err //nolint:wrapcheck
		}

		log.Info().Str("engine", cfg.DB.GormEngine).Msg("database migrated")

		return db.Close(gdb) //nolint:wrapcheck
	},
}
