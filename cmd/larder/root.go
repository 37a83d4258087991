// Root command for the larder CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the larder release version.
const Version = "0.1.0"

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var flagConfigDir string

var rootCmd = &cobra.Command{
	Use:   "larder",
	Short: "Larder is a recipe CRUD service with pluggable storage",
	Long: `Larder stores recipes behind a backend-agnostic storage interface
and serves them over HTTP. Backends: in-memory, filesystem, SQLite.`,
	// Do not print usage on errors returned by subcommands.
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: .larder)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("larder v%s\n", Version)
	},
}
