// Package config provides YAML configuration parsing for the formbucket CLI.
//
// Example configuration:
//
//	api_url: https://app.formbucket.com
//	token_file: ~/.formbucket/token
//	timeout: 10s
//	flash_duration: 2s
//
//	devtools:
//	  enabled: true
//	  port: 8090
//
// String values support ${VAR} and ${VAR:-default} environment expansion.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimeout       = 10 * time.Second
	defaultFlashDuration = 2 * time.Second
	defaultDevtoolsPort  = 8090

	// minTimeout keeps a typo like "10ms" from failing every request.
	minTimeout = 100 * time.Millisecond
)

// Config is the root configuration structure.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// APIURL is the origin of the remote API, e.g. "https://app.formbucket.com".
	APIURL string `yaml:"api_url"`

	// Token is the bearer token. Prefer TokenFile so the secret stays out of
	// the config file; Token wins when both are set.
	Token string `yaml:"token"`

	// TokenFile is a file holding the bearer token. A leading "~/" expands
	// to the user's home directory.
	TokenFile string `yaml:"token_file"`

	// Timeout is the per-request timeout. Defaults to 10s.
	Timeout Duration `yaml:"timeout"`

	// FlashDuration is how long flash messages stay visible. Defaults to 2s.
	FlashDuration Duration `yaml:"flash_duration"`

	Devtools DevtoolsConfig `yaml:"devtools"`
}

// DevtoolsConfig controls the state inspector.
type DevtoolsConfig struct {
	Enabled bool `yaml:"enabled"`

	// Port defaults to 8090.
	Port int `yaml:"port"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Environment variables in the file are expanded before parsing.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in APIURL, Token and TokenFile.
// Defaults are applied for Timeout (10s), FlashDuration (2s) and
// Devtools.Port (8090).
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = Duration(defaultTimeout)
	}
	if cfg.FlashDuration == 0 {
		cfg.FlashDuration = Duration(defaultFlashDuration)
	}
	if cfg.Devtools.Port == 0 {
		cfg.Devtools.Port = defaultDevtoolsPort
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	if c.APIURL == "" {
		return errors.New("api_url is required")
	}

	var err error
	if c.APIURL, err = expandEnvVars(c.APIURL); err != nil {
		return fmt.Errorf("api_url: %w", err)
	}
	if c.Token, err = expandEnvVars(c.Token); err != nil {
		return fmt.Errorf("token: %w", err)
	}
	if c.TokenFile, err = expandEnvVars(c.TokenFile); err != nil {
		return fmt.Errorf("token_file: %w", err)
	}

	if err := ValidateAPIURL(c.APIURL); err != nil {
		return err
	}

	if c.Timeout.Duration() < minTimeout {
		return fmt.Errorf("timeout must be at least %s, got %s", minTimeout, c.Timeout.Duration())
	}
	if c.FlashDuration.Duration() < 0 {
		return fmt.Errorf("flash_duration cannot be negative, got %s", c.FlashDuration.Duration())
	}
	if c.Devtools.Port < 1 || c.Devtools.Port > 65535 {
		return fmt.Errorf("devtools.port must be between 1 and 65535, got %d", c.Devtools.Port)
	}

	return nil
}

// ValidateAPIURL checks that raw is an absolute http(s) URL with a host.
// Parse applies it to api_url; callers overriding APIURL after loading
// should apply it too.
func ValidateAPIURL(raw string) error {
	parsedURL, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid api_url: %w", err)
	}
	if parsedURL.Scheme == "" {
		return errors.New("api_url must have a scheme (http:// or https://)")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("api_url scheme must be http or https, got %q", parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return errors.New("api_url must have a host")
	}
	return nil
}

// ResolveToken returns the configured token: Token if set, otherwise the
// contents of TokenFile, otherwise "".
func (c *Config) ResolveToken() (string, error) {
	if c.Token != "" {
		return c.Token, nil
	}
	if c.TokenFile == "" {
		return "", nil
	}
	return ReadToken(c.TokenFile)
}

// ReadToken reads a bearer token from path, trimming surrounding whitespace.
//
// A missing file is not an error: it means no one is signed in, and the
// empty token is returned.
func ReadToken(path string) (string, error) {
	path, err := expandHome(path)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// WriteToken stores token at path with owner-only permissions, creating
// parent directories as needed. An empty token removes the file.
func WriteToken(path, token string) error {
	path, err := expandHome(path)
	if err != nil {
		return err
	}

	if token == "" {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove token file: %w", err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}
