package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/authcore/authcore/internal/auth"
	"github.com/authcore/authcore/internal/db"
	"github.com/authcore/authcore/internal/db/controller/user"
)

// ErrDenied is returned by check when the permission is not held, so the exit code is non-zero.
var ErrDenied = errors.New("permission denied")

func init() { //nolint: gochecknoinits
	checkCmd.Flags().StringVar(&checkUser, "user", "", "user id")
	checkCmd.Flags().StringVar(&checkPermission, "permission", "", "permission code, e.g. role.view")
	_ = checkCmd.MarkFlagRequired("user")
	_ = checkCmd.MarkFlagRequired("permission")

	rootCmd.AddCommand(checkCmd)
}

var (
	checkUser       string
	checkPermission string

	checkCmd = &cobra.Command{
		Use:     "check",
		Short:   "Report whether a user holds a permission",
		PreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := uuid.Parse(checkUser)
			if err != nil {
				return fmt.Errorf("invalid user id %q: %w", checkUser, err)
			}

			gdb, err := db.Open(&cfg.DB)
			if err != nil {
				return err //nolint:wrapcheck
			}

			defer func() { _ = db.Close(gdb) }()

			u, err := user.Get(gdb, id)
			if err != nil {
				return err //nolint:wrapcheck
			}

			allowed, err := auth.NewService(gdb).HasPermission(context.Background(), auth.FromUser(u), checkPermission)
			if err != nil {
				return err //nolint:wrapcheck
			}

			out := cmd.OutOrStdout()

			if !allowed {
				_, _ = fmt.Fprintf(out, "%s does not hold %s\n", u.Email, checkPermission)

				return ErrDenied
			}

			_, _ = fmt.Fprintf(out, "%s holds %s\n", u.Email, checkPermission)

			return nil
		},
	}
)
