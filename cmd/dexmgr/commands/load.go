package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/dexmgr/internal/app"
	"go.trai.ch/dexmgr/internal/core/domain"
)

func (c *CLI) newLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "load [flags] <dex-path>...",
		Short:   "Record dex files loaded by a package",
		Example: `  dexmgr load --package com.example --isa arm64 /data/user/0/com.example/files/plugin.dex`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, _ := cmd.Flags().GetString("package")
			user, _ := cmd.Flags().GetInt("user")
			isa, _ := cmd.Flags().GetString("isa")

			return c.app.Load(cmd.Context(), app.LoadEvent{
				Package: pkg,
				User:    domain.UserID(user),
				ISA:     isa,
				Paths:   args,
			})
		},
	}

	cmd.Flags().StringP("package", "p", "", "Package that loaded the dex files")
	cmd.Flags().IntP("user", "u", 0, "User the package runs as")
	cmd.Flags().String("isa", "", "Instruction set the loading process runs in")
	_ = cmd.MarkFlagRequired("package")
	_ = cmd.MarkFlagRequired("isa")

	return cmd
}
