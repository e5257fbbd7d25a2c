package commands

import "github.com/spf13/cobra"

func (c *CLI) newReconcileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile [package]...",
		Short: "Forget secondary dex files that no longer exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")
			return c.app.Reconcile(cmd.Context(), args, all)
		},
	}

	cmd.Flags().BoolP("all", "a", false, "Reconcile every package with recorded secondary dex files")

	return cmd
}
