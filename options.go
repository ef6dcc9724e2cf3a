package formbucket

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/formbucket/formbucket/model"
)

// Navigator performs a route change to path, e.g. "/buckets/abc/settings".
type Navigator func(path string)

// Confirmer asks the user a yes/no question and blocks for the answer.
type Confirmer func(message string) bool

// Alerter shows a blocking message to the user.
type Alerter func(message string)

// appConfig holds mutable state during App construction.
type appConfig struct {
	baseURL       string
	token         string
	timeout       time.Duration
	httpClient    *http.Client
	api           API
	logger        *slog.Logger
	navigator     Navigator
	confirmer     Confirmer
	alerter       Alerter
	flashDuration time.Duration
	initialState  *model.State
	devtoolsPort  int
}

// Option is a function that configures an [App] during construction.
//
// Options return an error if validation fails.
type Option func(*appConfig) error

// WithBaseURL sets the API origin used by the built-in HTTP client.
//
// Example:
//
//	app, err := formbucket.New(formbucket.WithBaseURL("https://app.formbucket.com"))
//
// Returns an error if the URL is empty.
func WithBaseURL(baseURL string) Option {
	return func(cfg *appConfig) error {
		if baseURL == "" {
			return errors.New("base url cannot be empty")
		}
		cfg.baseURL = baseURL
		return nil
	}
}

// WithToken sets the bearer token sent with every request and seeds
// State.User.Token. The token is read once at startup; see config.ReadToken.
func WithToken(token string) Option {
	return func(cfg *appConfig) error {
		cfg.token = token
		return nil
	}
}

// WithTimeout sets the per-request timeout of the built-in HTTP client.
// Defaults to 10 seconds.
//
// Returns an error if the duration is zero or negative.
func WithTimeout(d time.Duration) Option {
	return func(cfg *appConfig) error {
		if d <= 0 {
			return errors.New("timeout must be positive")
		}
		cfg.timeout = d
		return nil
	}
}

// WithHTTPClient replaces the pooled HTTP client used to reach the API.
// The bearer token is still added to every request.
//
// Returns an error if the client is nil.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *appConfig) error {
		if c == nil {
			return errors.New("http client cannot be nil")
		}
		cfg.httpClient = c
		return nil
	}
}

// WithAPI replaces the built-in HTTP client with a custom [API]
// implementation. When set, [WithBaseURL], [WithTimeout] and
// [WithHTTPClient] are ignored.
//
// Returns an error if api is nil.
func WithAPI(api API) Option {
	return func(cfg *appConfig) error {
		if api == nil {
			return errors.New("api cannot be nil")
		}
		cfg.api = api
		return nil
	}
}

// WithLogger sets a custom [slog.Logger]. If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *appConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithNavigator sets the route-change side effect invoked after actions such
// as CreateBucket and DeleteBucket. Nil is ignored.
func WithNavigator(n Navigator) Option {
	return func(cfg *appConfig) error {
		if n != nil {
			cfg.navigator = n
		}
		return nil
	}
}

// WithConfirmer sets the capability used to confirm destructive actions.
// Without one, every confirmation is declined. Nil is ignored.
func WithConfirmer(c Confirmer) Option {
	return func(cfg *appConfig) error {
		if c != nil {
			cfg.confirmer = c
		}
		return nil
	}
}

// WithAlerter sets the capability used to raise blocking error alerts.
// Without one, alerts are logged. Nil is ignored.
func WithAlerter(a Alerter) Option {
	return func(cfg *appConfig) error {
		if a != nil {
			cfg.alerter = a
		}
		return nil
	}
}

// WithFlashDuration sets how long a flash message (e.g. "Saved") stays in
// the state before it is cleared. Defaults to 2 seconds.
//
// Returns an error if the duration is zero or negative.
func WithFlashDuration(d time.Duration) Option {
	return func(cfg *appConfig) error {
		if d <= 0 {
			return errors.New("flash duration must be positive")
		}
		cfg.flashDuration = d
		return nil
	}
}

// WithInitialState replaces the default initial state. The token passed to
// [WithToken] is not copied into it.
func WithInitialState(s model.State) Option {
	return func(cfg *appConfig) error {
		cp := s.Clone()
		cfg.initialState = &cp
		return nil
	}
}

// WithDevtools enables the state inspector on the given port.
// Start it with [App.StartDevtools].
//
// Returns an error if the port is outside the valid range (1-65535).
func WithDevtools(port int) Option {
	return func(cfg *appConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		cfg.devtoolsPort = port
		return nil
	}
}
