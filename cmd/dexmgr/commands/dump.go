package commands

import "github.com/spf13/cobra"

func (c *CLI) newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump [package]...",
		Short: "Show the recorded dex usage of packages",
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")
			return c.app.Dump(cmd.Context(), cmd.OutOrStdout(), args, all)
		},
	}

	cmd.Flags().BoolP("all", "a", false, "Show every installed package with recorded usage")

	return cmd
}
