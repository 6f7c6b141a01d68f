package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/authcore/authcore/internal/auth"
	"github.com/authcore/authcore/internal/daemon"
	"github.com/authcore/authcore/internal/db"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:     "seed",
	Short:   "Create the permissions referenced by the policy table that do not exist yet",
	PreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, _ []string) error {
		gdb, err := daemon.OpenDB(&cfg)
		if err != nil {
			return err //nolint:wrapcheck
		}

		created, err := daemon.Seed(context.Background(), gdb, auth.MustDefaultPolicy())
		if err != nil {
			return errors.Join(err, db.Close(gdb))
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d permissions created\n", created)

		return db.Close(gdb) //nolint:wrapcheck
	},
}
