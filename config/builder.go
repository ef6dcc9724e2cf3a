package config

import (
	"log/slog"

	"github.com/formbucket/formbucket"
)

// Options converts parsed configuration into [formbucket.Option]s.
//
// The token is resolved once here (see [Config.ResolveToken]); the App never
// reads token storage again. Collaborators such as the navigator or the
// confirmer are not configurable from a file and must be appended by the caller.
func Options(cfg *Config, logger *slog.Logger) ([]formbucket.Option, error) {
	token, err := cfg.ResolveToken()
	if err != nil {
		return nil, err
	}

	opts := []formbucket.Option{
		formbucket.WithBaseURL(cfg.APIURL),
		formbucket.WithTimeout(cfg.Timeout.Duration()),
	}

	if token != "" {
		opts = append(opts, formbucket.WithToken(token))
	}

	if cfg.FlashDuration > 0 {
		opts = append(opts, formbucket.WithFlashDuration(cfg.FlashDuration.Duration()))
	}

	if cfg.Devtools.Enabled {
		opts = append(opts, formbucket.WithDevtools(cfg.Devtools.Port))
	}

	if logger != nil {
		opts = append(opts, formbucket.WithLogger(logger))
	}

	return opts, nil
}
