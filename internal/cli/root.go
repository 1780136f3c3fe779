package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/fswrangler/fswrangler/pkg/buildinfo"
)

// Execute runs the fswrangler CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// The function sets up the root command with all subcommands, configures
// logging based on the --verbose flag, and executes the command tree. The
// logger is attached to the context and accessible to all commands via
// loggerFromContext.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
func Execute(ctx context.Context) error {
	var (
		verbose      bool
		manifestPath string
	)

	root := &cobra.Command{
		Use:          appName,
		Short:        "fswrangler manages a flight simulator's content manifest",
		Long:         `fswrangler reads the simulator's Content.xml manifest, classifies the installed packages, and lets you enable, disable, and prune them safely with automatic backups.`,
		Version:      buildinfo.Version,
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
	root.PersistentFlags().StringVarP(&manifestPath, "manifest", "m", "", "path to the Content.xml manifest (overrides config and discovery)")

	root.AddCommand(newListCmd(&manifestPath))
	root.AddCommand(newEnableCmd(&manifestPath))
	root.AddCommand(newDisableCmd(&manifestPath))
	root.AddCommand(newSaveCmd(&manifestPath))
	root.AddCommand(newTUICmd(&manifestPath))
	root.AddCommand(newLocateCmd())
	root.AddCommand(newRulesCmd())
	root.AddCommand(newBackupCmd(&manifestPath))
	root.AddCommand(newThumbsCmd(&manifestPath))
	root.AddCommand(newConfigCmd())
	root.AddCommand(newCompletionCmd())

	return root.ExecuteContext(ctx)
}
