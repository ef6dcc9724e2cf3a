package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/formbucket/formbucket/config"
)

// validateCmd validates a config file without contacting the API.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a formbucket configuration file without contacting the API.

This command parses the YAML, expands environment variables, validates all
fields and checks that the token file (if any) is readable.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  formbucket validate -c formbucket.yaml`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	if configFile == "" {
		return fmt.Errorf("invalid config: --config is required")
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	token, err := cfg.ResolveToken()
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	tokenState := "not set"
	if token != "" {
		tokenState = "set"
	}
	devtools := "disabled"
	if cfg.Devtools.Enabled {
		devtools = fmt.Sprintf("enabled on port %d", cfg.Devtools.Port)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config is valid!\n")
	fmt.Fprintf(out, "  API URL:        %s\n", cfg.APIURL)
	fmt.Fprintf(out, "  Token:          %s\n", tokenState)
	fmt.Fprintf(out, "  Timeout:        %s\n", cfg.Timeout.Duration())
	fmt.Fprintf(out, "  Flash duration: %s\n", cfg.FlashDuration.Duration())
	fmt.Fprintf(out, "  Devtools:       %s\n", devtools)

	return nil
}
