// Package main is the entry point for the formbucket CLI.
//
// The CLI is a headless view over the formbucket actions: every command runs
// one or more actions against the API and prints the resulting state.
//
// Usage:
//
//	formbucket buckets list -c formbucket.yaml
//	formbucket submissions list <bucket-id> --type spam
//	formbucket devtools -c formbucket.yaml
//	formbucket version
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version information - set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "formbucket",
	Short: "Manage form buckets and their submissions",
	Long: `formbucket manages form buckets, their submissions, your profile and
subscription, activity logs and the email notification queue.

Quick start:
  1. Create a config file (formbucket.yaml)
  2. Run: formbucket validate -c formbucket.yaml
  3. Run: formbucket buckets list -c formbucket.yaml

Example config:
  api_url: https://app.formbucket.com
  token_file: ~/.formbucket/token
  timeout: 10s`,
	SilenceUsage: true,
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this formbucket binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "formbucket %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "path to config file")
	flags.String("api-url", "", "API origin (overrides config)")
	flags.String("token", "", "bearer token (overrides config and token file)")
	flags.StringP("output", "o", "json", "output format: json or yaml")
	flags.BoolP("yes", "y", false, "answer yes to confirmation prompts")
	flags.BoolP("verbose", "v", false, "log requests at debug level")
}
