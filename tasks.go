package formbucket

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/google/uuid"

	"github.com/formbucket/formbucket/model"
)

// Go runs an asynchronous action on a tracked goroutine and returns
// immediately. This is how a view fires an action without waiting for it:
//
//	app.Go(ctx, "load buckets", app.LoadBuckets)
//
// The action's own error policy applies (its failure is already recorded in
// the state or alerted), so the returned error is only logged. A panic is
// recovered, logged with a correlation ID and recorded as the visible error.
// Use [App.Wait] to wait for all started actions.
func (a *App) Go(ctx context.Context, action string, fn func(context.Context) error) {
	a.tasks.Add(1)
	go func() {
		defer a.tasks.Done()
		defer a.recoverTask(action)

		if err := fn(ctx); err != nil {
			a.logger.Debug("background action finished with error", "action", action, "error", err)
		}
	}()
}

// Wait blocks until every action started with [App.Go] has returned.
func (a *App) Wait() {
	a.tasks.Wait()
}

// recoverTask turns a panicking action into a visible error.
func (a *App) recoverTask(action string) {
	r := recover()
	if r == nil {
		return
	}
	correlationID := uuid.NewString()

	// log full context for debugging
	a.logger.Error("action panic",
		"action", action,
		"correlation_id", correlationID,
		"panic", fmt.Sprintf("%v", r),
		"stack", string(debug.Stack()),
	)
	a.store.SetState(model.Patch{
		Error: model.Set(fmt.Sprintf("%s failed unexpectedly (correlation_id: %s)", action, correlationID)),
	})
}
