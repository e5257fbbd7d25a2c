package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/dexmgr/internal/app"
)

func (c *CLI) newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [package]...",
		Short: "Compile recorded secondary dex files",
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")
			filter, _ := cmd.Flags().GetString("filter")
			force, _ := cmd.Flags().GetBool("force")

			return c.app.Compile(cmd.Context(), app.CompileOptions{
				Packages: args,
				All:      all,
				Filter:   filter,
				Force:    force,
			})
		},
	}

	cmd.Flags().BoolP("all", "a", false, "Compile every package with recorded secondary dex files")
	cmd.Flags().String("filter", "", "Compiler filter passed through to the compiler")
	cmd.Flags().BoolP("force", "f", false, "Compile even if the generated code is up to date")

	return cmd
}
