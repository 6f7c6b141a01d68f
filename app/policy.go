package app

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/authcore/authcore/internal/auth"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(policyCmd)
}

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Print the permission each operation requires",
	RunE: func(cmd *cobra.Command, _ []string) error {
		policy, err := auth.NewPolicy(auth.DefaultRules())
		if err != nil {
			return err //nolint:wrapcheck
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "RESOURCE\tOPERATION\tPERMISSION")

		for _, r := range policy.Rules() {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", r.Resource, r.Operation, r.Permission)
		}

		return w.Flush() //nolint:wrapcheck
	},
}
