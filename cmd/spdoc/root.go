package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/spdoc/internal/config"
	"github.com/nao1215/spdoc/internal/log"
)

// NewRootCmd creates the root command for spdoc.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spdoc",
		Short: "Documentation generator for stored procedures",
		Long: `spdoc turns documentation records of stored procedures into technical
documents in text, Markdown, HTML or JSON.

Sections for dependencies, error handling and performance notes appear only
when the procedure is complex enough. Every generation is recorded in a local
history database so that documents can be compared over time.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("db-dir", config.XDGDataDir(), "Directory of the history database")
	cmd.PersistentFlags().String("log-format", "text", "Log output format: text or json")

	// Add subcommands
	cmd.AddCommand(NewGenerateCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getDBDir retrieves the history database directory.
func getDBDir(cmd *cobra.Command) string {
	dir, err := cmd.Flags().GetString("db-dir")
	if err != nil || dir == "" {
		return config.XDGDataDir()
	}
	return dir
}

// setupLogger creates the masking logger writing to the command's stderr.
// An unknown --log-format falls back to text.
func setupLogger(cmd *cobra.Command) *slog.Logger {
	verbose := getVerboseFlag(cmd)
	format, _ := cmd.Flags().GetString("log-format") //nolint:errcheck // persistent flag always registered on the root
	if format == "json" {
		return log.NewJSONLogger(cmd.ErrOrStderr(), verbose)
	}
	return log.NewLogger(cmd.ErrOrStderr(), verbose)
}
