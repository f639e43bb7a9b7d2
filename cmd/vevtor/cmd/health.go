package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that Qdrant is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), load, func(a *app) error {
				status, err := a.svc.HealthCheck(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s (commit %s)\n", status.Title, status.Version, status.Commit)
				return nil
			})
		},
	}
}
