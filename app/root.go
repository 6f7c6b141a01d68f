// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/authcore/authcore/internal/config"
	"github.com/authcore/authcore/internal/logger"
)

var (
	configPath string // Path to the configuration directory holding main.toml
	cfg        config.Config

	rootCmd = &cobra.Command{
		Use:   "authcore",
		Short: "authcore is a role based authorization service with an audit trail",
		Long: `authcore stores users, roles and permissions, answers whether a principal
holds a permission and records every change to the authorization data in an
append-only audit trail.`,
		Args:          cobra.OnlyValidArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/", "configuration directory")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute() //nolint:wrapcheck
}

// loadConfig reads the configuration and initialises the logger.
func loadConfig(_ *cobra.Command, _ []string) error {
	var err error

	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err //nolint:wrapcheck
	}

	return logger.Init(cfg.Log) //nolint:wrapcheck
}
