// Package cmd contains the CLI commands for collabctl.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// defaultDBPath is empty (in-memory) unless COLLABHUB_DB_PATH is set.
var defaultDBPath = os.Getenv("COLLABHUB_DB_PATH")

var (
	// Used for flags
	verbose  bool
	output   string
	dbPath   string
	seedPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "collabctl",
	Short: "CollabHub - Team collaboration workspace",
	Long: `collabctl works with a CollabHub workspace from the terminal:
projects, the task board, files, the timeline, team chat, notifications
and the user profile.

Without --db every invocation starts from the seed and changes are
discarded when the command exits. With --db the workspace is loaded from
and saved to an SQLite snapshot, so changes carry over between runs.

Examples:
  # List projects matching a search
  collabctl projects list --search health

  # Move a task to completed, keeping the change
  collabctl --db ./workspace.db tasks status 2 completed

  # Filter the task board with an expression
  collabctl tasks board --where 'priority == "high" and not overdue'`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "output format (table, json)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDBPath, "SQLite snapshot to load and save (default: none)")
	rootCmd.PersistentFlags().StringVar(&seedPath, "seed", "", "seed fixture YAML (default: built-in workspace)")
}

// IsVerbose returns whether verbose mode is enabled.
func IsVerbose() bool {
	return verbose
}

// GetOutput returns the output format.
func GetOutput() string {
	return output
}

// PrintVerbose prints a message to stderr only if verbose mode is enabled.
func PrintVerbose(cmd *cobra.Command, format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
	}
}
