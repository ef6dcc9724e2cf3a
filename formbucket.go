package formbucket

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/formbucket/formbucket/dashboard"
	"github.com/formbucket/formbucket/internal/api"
	"github.com/formbucket/formbucket/internal/devtools"
	"github.com/formbucket/formbucket/internal/store"
	"github.com/formbucket/formbucket/model"
)

const (
	defaultTimeout       = 10 * time.Second
	defaultFlashDuration = 2 * time.Second
)

// API is the remote collaborator the actions talk to. Each method issues one
// request and returns its decoded result; none of them touch application state.
//
// The default implementation is an HTTP client built from [WithBaseURL];
// tests and embedders can supply their own via [WithAPI].
type API interface {
	Buckets(ctx context.Context) ([]model.Bucket, error)
	Bucket(ctx context.Context, id string) (model.Bucket, error)
	CreateBucket(ctx context.Context, bucket model.Bucket) (string, error)
	UpdateBucket(ctx context.Context, bucket model.Bucket) error
	DeleteBucket(ctx context.Context, id string) error
	ExportBucket(ctx context.Context, id, format string) (model.ExportFile, error)
	DownloadFile(ctx context.Context, file model.ExportFile, w io.Writer) (int64, error)

	Submissions(ctx context.Context, params model.SubmissionParams) (model.SubmissionPage, error)
	UpdateSubmissions(ctx context.Context, bucketID string, ids []string, flags model.SubmissionFlags) (int, error)
	DeleteSubmissions(ctx context.Context, bucketID string, ids []string) (int, error)

	Profile(ctx context.Context) (model.User, error)
	UpdateUser(ctx context.Context, updates model.UserUpdates) (model.User, error)
	Subscribe(ctx context.Context, accountID, token, plan string) (model.User, error)
	Unsubscribe(ctx context.Context, accountID string) (model.User, error)

	Logs(ctx context.Context, offset, limit int, bucketID string) (model.LogPage, error)
	Log(ctx context.Context, id string) (model.LogEntry, error)
	Notifications(ctx context.Context, offset, limit int, bucketID, mailID string) (model.NotificationPage, error)
}

var _ API = (*api.Client)(nil)

// ErrNotConfirmed is returned by destructive actions when the user declines
// the confirmation prompt. No request is sent and no state changes.
var ErrNotConfirmed = errors.New("action not confirmed")

// App holds the application state and exposes the actions that change it.
//
// App is created using [New] with functional options. Each App owns its own
// store, so several can coexist in one process (e.g. in tests).
//
// Synchronous actions (ChangeBucket, SetSelected, ...) merge a patch
// immediately. Asynchronous actions (LoadBuckets, SaveBucket, ...) block until
// their requests resolve, merge the outcome and return the error they
// surfaced. Views that do not want to block run them through [App.Go].
//
// Actions may run concurrently. Each merge is atomic, but there is no ordering
// between in-flight actions: when two of them write the same field, the one
// whose response arrives last wins.
type App struct {
	api      API
	client   *api.Client // owned HTTP client, nil when the API was injected
	store    *store.MemoryStore
	navigate Navigator
	confirm  Confirmer
	alert    Alerter
	logger   *slog.Logger

	flashDuration time.Duration
	devtoolsPort  int

	tasks sync.WaitGroup

	timerMu    sync.Mutex
	flashTimer *time.Timer
	closed     bool
}

// New creates a new [App] with the given options.
//
// Either [WithBaseURL] or [WithAPI] is required. Other options have defaults:
//   - Request timeout: 10 seconds
//   - Flash message duration: 2 seconds
//   - Navigation: logged only
//   - Confirmation: always declined
//   - Alerts: logged at error level
//
// Example:
//
//	app, err := formbucket.New(
//	    formbucket.WithBaseURL("https://app.formbucket.com"),
//	    formbucket.WithToken(token),
//	    formbucket.WithNavigator(router.Go),
//	)
func New(opts ...Option) (*App, error) {
	cfg := &appConfig{
		timeout:       defaultTimeout,
		flashDuration: defaultFlashDuration,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	app := &App{
		api:           cfg.api,
		navigate:      cfg.navigator,
		confirm:       cfg.confirmer,
		alert:         cfg.alerter,
		logger:        logger,
		flashDuration: cfg.flashDuration,
		devtoolsPort:  cfg.devtoolsPort,
	}

	if app.api == nil {
		if cfg.baseURL == "" {
			return nil, errors.New("either a base url or an api implementation is required")
		}
		client, err := api.NewClient(api.Config{
			BaseURL:    cfg.baseURL,
			Token:      cfg.token,
			Timeout:    cfg.timeout,
			HTTPClient: cfg.httpClient,
			Logger:     logger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create api client: %w", err)
		}
		app.api = client
		app.client = client
	}

	if app.navigate == nil {
		app.navigate = func(path string) {
			logger.Info("navigate", "path", path)
		}
	}
	if app.confirm == nil {
		app.confirm = func(message string) bool {
			logger.Warn("confirmation declined, no confirmer configured", "prompt", message)
			return false
		}
	}
	if app.alert == nil {
		app.alert = func(message string) {
			logger.Error("alert", "message", message)
		}
	}

	initial := model.Initial(cfg.token)
	if cfg.initialState != nil {
		initial = *cfg.initialState
	}
	app.store = store.NewMemoryStore(initial)

	return app, nil
}

// State returns a snapshot of the current application state.
// The snapshot is a copy; modifying it does not affect the App.
func (a *App) State() model.State {
	return a.store.Snapshot()
}

// SetState merges patch into the state and notifies subscribers.
// It returns the resulting state.
func (a *App) SetState(patch model.Patch) model.State {
	return a.store.SetState(patch)
}

// Watch returns a channel receiving a state snapshot after every change.
//
// The channel is buffered; a watcher that falls behind misses intermediate
// snapshots but always receives later ones. Call [App.Unwatch] when done.
func (a *App) Watch() <-chan model.State {
	return a.store.Subscribe()
}

// Unwatch stops delivery to ch and closes it.
func (a *App) Unwatch(ch <-chan model.State) {
	a.store.Unsubscribe(ch)
}

// StartDevtools serves the state inspector configured by [WithDevtools].
//
// StartDevtools is non-blocking; the server shuts down when ctx is cancelled.
// Returns an error if devtools were not enabled or the port cannot be bound.
func (a *App) StartDevtools(ctx context.Context) error {
	if a.devtoolsPort == 0 {
		return errors.New("devtools not enabled")
	}
	srv := devtools.NewServer(a.store, a.devtoolsPort, dashboard.Assets, a.logger)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("failed to start devtools: %w", err)
	}
	a.logger.Info("devtools available", "url", fmt.Sprintf("http://localhost:%d/api/state", a.devtoolsPort))
	return nil
}

// Close stops pending timers, waits for tasks started with [App.Go] and
// releases idle connections. The state remains readable after Close.
func (a *App) Close() {
	a.timerMu.Lock()
	a.closed = true
	if a.flashTimer != nil {
		a.flashTimer.Stop()
		a.flashTimer = nil
	}
	a.timerMu.Unlock()

	a.tasks.Wait()
	a.client.Close()
}

// fail records err as the visible error and returns it wrapped with the action name.
func (a *App) fail(action string, err error) error {
	a.logger.Warn("action failed", "action", action, "error", err)
	a.store.SetState(model.Patch{Error: model.Set(err.Error())})
	return fmt.Errorf("%s: %w", action, err)
}

// failAlert raises err as a blocking alert and returns it wrapped with the action name.
func (a *App) failAlert(action string, err error) error {
	a.logger.Warn("action failed", "action", action, "error", err)
	a.alert(err.Error())
	return fmt.Errorf("%s: %w", action, err)
}

// showFlash merges patch together with a flash message and schedules the
// message to clear after the flash duration. A newer flash restarts the timer.
func (a *App) showFlash(message string, patch model.Patch) {
	patch.Flash = model.Set(message)
	a.store.SetState(patch)

	a.timerMu.Lock()
	defer a.timerMu.Unlock()
	if a.closed {
		return
	}
	if a.flashTimer != nil {
		a.flashTimer.Stop()
	}
	a.flashTimer = time.AfterFunc(a.flashDuration, func() {
		a.store.SetState(model.Patch{Flash: model.Clear[string]()})
	})
}
