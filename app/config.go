package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/authcore/authcore/internal/config"
)

func init() { //nolint: gochecknoinits
	dumpCmd.Flags().StringVar(&dumpFormat, "format", "toml", "output format: toml or json")

	configCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(configCmd)
}

var (
	dumpFormat string

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}

	dumpCmd = &cobra.Command{
		Use:   "dump",
		Short: "Print the effective configuration after defaults and the environment override",
		PreRunE: func(_ *cobra.Command, _ []string) error {
			var err error

			cfg, err = config.ReadConfig(configPath)

			return err //nolint:wrapcheck
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				out string
				err error
			)

			switch dumpFormat {
			case "toml":
				out, err = config.DumpConfig(&cfg)
			case "json":
				out, err = config.DumpConfigJSON(&cfg)
			default:
				return fmt.Errorf("unsupported format %q", dumpFormat)
			}

			if err != nil {
				return err //nolint:wrapcheck
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)

			return err //nolint:wrapcheck
		},
	}
)
