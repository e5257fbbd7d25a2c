package commands

import "github.com/spf13/cobra"

func (c *CLI) newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Reconcile the usage ledger with the installed packages",
		Long:  `Rebuild the code location index from the package manifest and drop
ledger entries of packages and users that are no longer installed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Sync(cmd.Context())
		},
	}
}
