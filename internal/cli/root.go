// Package cli implements the command-line interface for ttct.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Persistent flags shared by every command.
var (
	flagDBPath    string
	flagLatencyMs int
)

// SetVersionInfo sets the version information for the CLI.
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (%s, %s)", version, commit, date)
}

var rootCmd = &cobra.Command{
	Use:   "ttct",
	Short: "Contract negotiation request wizard",
	Long: `ttct guides a contract negotiation request through its 14 sections,
tracks which required sections are complete and submits the request to
the International Trade office once every required section is filled in.

Run "ttct start" to open the interactive wizard, or use the scripted
commands (set, submit, export) from shell scripts.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, which commands stop on.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Database file (default: config db_path or the data dir)")
	rootCmd.PersistentFlags().IntVar(&flagLatencyMs, "latency-ms", -1, "Simulated store latency in milliseconds")

	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(fillCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(configCmd)
}
