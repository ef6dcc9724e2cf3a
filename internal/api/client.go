package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const maxResponseBodySize = 10 << 20 // 10MB

const defaultTimeout = 10 * time.Second

// connection pooling limits; every request goes to the same API host
const (
	defaultMaxIdleConns        = 20
	defaultMaxIdleConnsPerHost = 10
	defaultMaxConnsPerHost     = 10
	defaultIdleConnTimeout     = 60 * time.Second
)

// RequestIDHeader is set on every outgoing request.
const RequestIDHeader = "X-Request-ID"

// Error is returned when the API answers with a non-2xx status.
type Error struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int

	// Message is the server-provided error text, or the HTTP status line
	// when the body carries none.
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// IsStatus reports whether err is an [Error] with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// Config configures a [Client].
type Config struct {
	// BaseURL is the API origin, e.g. "https://app.formbucket.com".
	BaseURL string

	// Token is the bearer token sent with every request. Empty sends none.
	Token string

	// Timeout bounds each request, including reading the body.
	// Defaults to 10s.
	Timeout time.Duration

	// HTTPClient overrides the pooled default client. Its transport is
	// wrapped to add the bearer token.
	HTTPClient *http.Client

	// Logger receives debug logs for each request. Defaults to slog.Default().
	Logger *slog.Logger
}

// Client talks to the remote API.
//
// Client uses per-request timeouts via context rather than a global client
// timeout. Response bodies are limited to 10MB, except file downloads which
// are streamed.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger

	// base is the transport under the auth wrapper, kept for Close
	base http.RoundTripper
}

// NewClient creates an API [Client].
//
// Returns an error if BaseURL is not an absolute http(s) URL.
func NewClient(cfg Config) (*Client, error) {
	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if baseURL.Scheme != "http" && baseURL.Scheme != "https" {
		return nil, fmt.Errorf("base url must use http or https, got %q", cfg.BaseURL)
	}
	if baseURL.Host == "" {
		return nil, fmt.Errorf("base url must include a host, got %q", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			// no default timeout - we use per-request timeouts via context
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        defaultMaxIdleConns,
				MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
				MaxConnsPerHost:     defaultMaxConnsPerHost,
				IdleConnTimeout:     defaultIdleConnTimeout,
			},
		}
	}
	base := httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	if cfg.Token != "" {
		wrapped := *httpClient
		wrapped.Transport = &originTransport{
			origin: baseURL,
			auth: &oauth2.Transport{
				Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"}),
				Base:   base,
			},
			base: base,
		}
		httpClient = &wrapped
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		timeout:    timeout,
		logger:     logger,
		base:       base,
	}, nil
}

// originTransport sends credentials only to the API origin. Requests to any
// other origin, including redirects that leave it, go out without them.
type originTransport struct {
	origin *url.URL
	auth   http.RoundTripper
	base   http.RoundTripper
}

func (t *originTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme == t.origin.Scheme && strings.EqualFold(req.URL.Host, t.origin.Host) {
		return t.auth.RoundTrip(req)
	}
	return t.base.RoundTrip(req)
}

// resolve turns an API path or an absolute URL into a request URL.
func (c *Client) resolve(ref string, query url.Values) (*url.URL, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", ref, err)
	}
	resolved := c.baseURL.ResolveReference(u)
	if len(query) > 0 {
		resolved.RawQuery = query.Encode()
	}
	return resolved, nil
}

// send issues a request and returns the open response. The caller must close
// the body and call cancel. Non-2xx responses are turned into [Error].
func (c *Client) send(ctx context.Context, method, ref string, query url.Values, payload any) (*http.Response, context.CancelFunc, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)

	targetURL, err := c.resolve(ref, query)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	target := targetURL.String()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			cancel()
			return nil, nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}

	c.logger.Debug("api request",
		"method", method,
		"url", target,
		"status", resp.StatusCode,
		"request_id", requestID,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer cancel()
		defer func() { _ = resp.Body.Close() }()
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
		return nil, nil, &Error{StatusCode: resp.StatusCode, Message: errorMessage(data, resp.Status)}
	}

	return resp, cancel, nil
}

// do issues a JSON request and decodes the response into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload, out any) error {
	resp, cancel, err := c.send(ctx, method, path, query, payload)
	if err != nil {
		return err
	}
	defer cancel()
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// errorMessage extracts a human-readable message from an error body.
func errorMessage(body []byte, status string) string {
	var wrapped struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil {
		if wrapped.Error != "" {
			return wrapped.Error
		}
		if wrapped.Message != "" {
			return wrapped.Message
		}
	}
	if msg := strings.TrimSpace(string(body)); msg != "" && !strings.HasPrefix(msg, "{") {
		return msg
	}
	return status
}

// Close closes all idle connections in the client's connection pool.
//
// Safe to call multiple times. After Close, the client remains usable but
// new connections will be established as needed.
func (c *Client) Close() {
	if c == nil || c.base == nil {
		return
	}
	if closer, ok := c.base.(interface{ CloseIdleConnections() }); ok {
		closer.CloseIdleConnections()
	}
}
