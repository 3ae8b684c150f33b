// Package commands implements the CLI commands for the facility
// reservation server.
package commands

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "resvserver",
	Short: "Facility reservation server",
	Long: `resvserver runs the single-threaded UDP server for the facility
reservation protocol: it decodes inbound datagrams, dispatches them to the
request router, mutates the in-memory facility store, fans out monitor
updates, and replies.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(versionCmd)
}

// Exit prints an error to stderr and exits with status 1.
func Exit(format string, args ...any) {
	rootCmd.PrintErrf(format+"\n", args...)
	os.Exit(1)
}
