package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/formbucket/formbucket"
	"github.com/formbucket/formbucket/config"
)

// newLogger creates a JSON logger on the command's stderr.
func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	}))
}

// loadConfig reads --config when given and applies flag overrides on top.
// Without a config file, --api-url is required.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	configFile, _ := flags.GetString("config")
	apiURL, _ := flags.GetString("api-url")
	token, _ := flags.GetString("token")

	var cfg *config.Config
	var err error
	switch {
	case configFile != "":
		cfg, err = config.Load(configFile)
	case apiURL != "":
		cfg, err = config.Parse([]byte(fmt.Sprintf("api_url: %q", apiURL)))
	default:
		return nil, errors.New("either --config or --api-url is required")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if apiURL != "" {
		if err := config.ValidateAPIURL(apiURL); err != nil {
			return nil, fmt.Errorf("invalid --api-url: %w", err)
		}
		cfg.APIURL = apiURL
	}
	if token != "" {
		cfg.Token = token
	}
	return cfg, nil
}

// newApp builds an App from the command's flags with terminal collaborators:
// prompts read from stdin, alerts go to stderr, navigation is logged.
// extra options are applied last.
func newApp(cmd *cobra.Command, extra ...formbucket.Option) (*formbucket.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger := newLogger(cmd)
	opts, err := config.Options(cfg, logger)
	if err != nil {
		return nil, err
	}

	assumeYes, _ := cmd.Flags().GetBool("yes")
	opts = append(opts,
		formbucket.WithConfirmer(promptConfirmer(cmd.InOrStdin(), cmd.ErrOrStderr(), assumeYes)),
		formbucket.WithAlerter(func(message string) {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %s\n", message)
		}),
		formbucket.WithNavigator(func(path string) {
			logger.Debug("navigate", "path", path)
		}),
	)

	opts = append(opts, extra...)

	app, err := formbucket.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create app: %w", err)
	}
	return app, nil
}

// promptConfirmer asks on out and reads a y/N answer from in.
func promptConfirmer(in io.Reader, out io.Writer, assumeYes bool) formbucket.Confirmer {
	reader := bufio.NewReader(in)
	return func(message string) bool {
		if assumeYes {
			return true
		}
		fmt.Fprintf(out, "%s [y/N]: ", message)
		answer, err := reader.ReadString('\n')
		if err != nil && answer == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true
		default:
			return false
		}
	}
}

// printOutput writes v to the command's stdout as JSON or YAML.
//
// YAML is produced from the JSON encoding so both formats share field names.
func printOutput(cmd *cobra.Command, v any) error {
	format, _ := cmd.Flags().GetString("output")
	out := cmd.OutOrStdout()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	switch format {
	case "json", "":
		_, err = fmt.Fprintln(out, string(data))
		return err
	case "yaml":
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(&node); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (expected json or yaml)", format)
	}
}
