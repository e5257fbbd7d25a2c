package commands

import "github.com/spf13/cobra"

func (c *CLI) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Record load and install events read from stdin",
		Long:  `Read JSON events, one per line, from stdin until it is closed:

  {"type":"load","package":"com.example","user":0,"isa":"arm64","paths":["/data/user/0/com.example/code.dex"]}
  {"type":"installed","user":0,"app":{"name":"com.example","sourceDir":"/data/app/com.example/base.apk","dataDir":"/data/user/0/com.example"}}

Changes of the package manifest are picked up while watching.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Watch(cmd.Context(), cmd.InOrStdin())
		},
	}
}
