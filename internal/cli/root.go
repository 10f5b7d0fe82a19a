package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/atthecodeface/diagramc/pkg/buildinfo"
)

// Execute runs the diagramc CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// The function sets up the root command with all subcommands (compile,
// cache), configures logging based on the --verbose flag, and executes
// the command tree.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands
// via loggerFromContext.
func Execute() error {
	var verbose bool

	root := &cobra.Command{
		Use:          "diagramc",
		Short:        "diagramc compiles diagram documents into geometry",
		Long:         `diagramc is a compiler for declarative diagram documents: it expands templates, resolves styles, solves the grid-constraint layout, and renders the result as SVG or JSON geometry.`,
		Version:      buildinfo.String(),
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newCompileCmd())
	root.AddCommand(newCacheCmd())

	return root.ExecuteContext(context.Background())
}
