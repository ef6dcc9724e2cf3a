package formbucket

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/formbucket/formbucket/model"
)

const defaultLogLimit = 100

// LoadLogs loads a page of activity logs. A limit of zero or less means 100.
//
// When bucketID is set, the logs are filtered to that bucket and the bucket
// itself is loaded concurrently (see LoadBucket). Each half records its own
// failure; the first error is returned.
func (a *App) LoadLogs(ctx context.Context, offset, limit int, bucketID string) error {
	if limit <= 0 {
		limit = defaultLogLimit
	}
	a.store.SetState(model.Patch{Loading: model.Set(true)})

	var g errgroup.Group
	g.Go(func() error {
		page, err := a.api.Logs(ctx, offset, limit, bucketID)
		if err != nil {
			a.store.SetState(model.Patch{Loading: model.Set(false)})
			return a.fail("load logs", err)
		}
		a.store.SetState(model.Patch{
			CurrentOffset: model.Set(offset),
			Loading:       model.Set(false),
			Loaded:        model.Set(true),
			Logs:          model.Set(&page),
		})
		return nil
	})
	if bucketID != "" {
		g.Go(func() error {
			return a.LoadBucket(ctx, bucketID)
		})
	}
	return g.Wait()
}

// LoadLog loads a single log entry.
func (a *App) LoadLog(ctx context.Context, id string) error {
	entry, err := a.api.Log(ctx, id)
	if err != nil {
		return a.fail("load log", err)
	}
	a.store.SetState(model.Patch{Log: model.Set(&entry)})
	return nil
}

// LoadNotifications loads a page of the email queue, optionally narrowed to
// a bucket and/or a mail id.
func (a *App) LoadNotifications(ctx context.Context, offset, limit int, bucketID, mailID string) error {
	page, err := a.api.Notifications(ctx, offset, limit, bucketID, mailID)
	if err != nil {
		return a.fail("load notifications", err)
	}
	a.store.SetState(model.Patch{Notifications: model.Set(&page)})
	return nil
}
