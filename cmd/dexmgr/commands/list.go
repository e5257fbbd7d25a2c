package commands

import "github.com/spf13/cobra"

func (c *CLI) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List packages with recorded secondary dex files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.List(cmd.Context(), cmd.OutOrStdout())
		},
	}
}
