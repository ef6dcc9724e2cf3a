// Package formbucket is the state and action layer of the FormBucket client:
// the application state of a form-bucket dashboard and the actions that read
// and change it through the remote API.
//
// A view holds an [App], renders from [App.State] (or a [App.Watch]
// channel) and calls actions in response to user input. Each App owns its
// own store, so several apps can coexist in one process.
//
// # Quick Start
//
//	app, err := formbucket.New(
//	    formbucket.WithBaseURL("https://app.formbucket.com"),
//	    formbucket.WithToken(token),
//	)
//	if err != nil {
//	    return err
//	}
//	defer app.Close()
//
//	if err := app.LoadBuckets(ctx); err != nil {
//	    return err // already recorded in app.State().Error
//	}
//	for _, b := range app.State().Buckets {
//	    fmt.Println(b.ID, b.Name)
//	}
//
// # Actions
//
// Synchronous actions ([App.ChangeBucket], [App.SetSelected], [App.ClearError],
// ...) merge a patch into the state and return the result. Each has a pure
// counterpart of the same name (e.g. [ChangeBucket]) that computes the patch
// from a state without touching any store.
//
// Asynchronous actions issue one or more API requests, block until they
// resolve and merge the outcome. On failure they record the error in
// State.Error, or raise it through the [Alerter] for exports and bulk
// submission changes, and return it. Use [App.Go] to fire one without waiting.
//
// # Side effects
//
// Navigation, confirmation prompts and alerts are injected with
// [WithNavigator], [WithConfirmer] and [WithAlerter]. Without a confirmer every
// destructive action is declined with [ErrNotConfirmed].
//
// # Architecture
//
//   - model: entities, the application state and typed patches
//   - internal/store: in-memory state with pub/sub for change notification
//   - internal/api: HTTP client for the remote API
//   - internal/devtools: state inspector served over REST and Server-Sent Events
//   - config: YAML configuration and token storage for the CLI
//   - dashboard: embedded inspector page
//
// The internal packages are not part of the public API and may change
// without notice.
package formbucket
