// Package commands implements the CLI commands for dexmgr.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/dexmgr/internal/app"
	"go.trai.ch/dexmgr/internal/build"
)

// CLI represents the command line interface for dexmgr.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Sync(ctx context.Context) error
	Load(ctx context.Context, event app.LoadEvent) error
	Compile(ctx context.Context, opts app.CompileOptions) error
	Reconcile(ctx context.Context, packageNames []string, all bool) error
	List(ctx context.Context, w io.Writer) error
	Dump(ctx context.Context, w io.Writer, packageNames []string, all bool) error
	Watch(ctx context.Context, in io.Reader) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "dexmgr",
		Short:         "Track dex file ownership and usage across installed packages",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	// Read by main before the application is built.
	rootCmd.PersistentFlags().String("config", "", "Path to the dexmgr.yaml config file")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newSyncCmd())
	rootCmd.AddCommand(c.newLoadCmd())
	rootCmd.AddCommand(c.newCompileCmd())
	rootCmd.AddCommand(c.newReconcileCmd())
	rootCmd.AddCommand(c.newListCmd())
	rootCmd.AddCommand(c.newDumpCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// SetInput sets the stream watch mode reads events from.
func (c *CLI) SetInput(in io.Reader) {
	c.rootCmd.SetIn(in)
}
