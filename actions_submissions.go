package formbucket

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/formbucket/formbucket/model"
)

// LoadSubmissions loads the bucket and one page of its submissions.
//
// The list is first marked as loading (params stored, submissions and counts
// cleared). The bucket and the page are then requested concurrently and
// merged in a single patch only once both resolve: the selection is emptied
// and every returned submission is expanded. If either request fails, a
// single error is recorded.
func (a *App) LoadSubmissions(ctx context.Context, params model.SubmissionParams) error {
	a.store.SetState(submissionsLoading(params))

	query := params
	query.Select = withIDField(params.Select)
	if query.Type == "" {
		query.Type = model.SubmissionsInbox
	}

	var (
		bucket model.Bucket
		page   model.SubmissionPage
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bucket, err = a.api.Bucket(gctx, params.BucketID)
		return err
	})
	g.Go(func() error {
		var err error
		page, err = a.api.Submissions(gctx, query)
		return err
	})
	if err := g.Wait(); err != nil {
		return a.fail("load submissions", err)
	}

	a.store.SetState(submissionsLoaded(bucket, page))
	return nil
}

// LoadSubmissionsByBucket replaces the submission list with one page of a
// bucket's inbox, leaving counts and selection untouched.
func (a *App) LoadSubmissionsByBucket(ctx context.Context, bucketID string, offset, limit int, sel string) error {
	page, err := a.api.Submissions(ctx, model.SubmissionParams{
		BucketID: bucketID,
		Offset:   offset,
		Limit:    limit,
		Select:   sel,
	})
	if err != nil {
		return a.fail("load submissions", err)
	}
	a.store.SetState(model.Patch{Submissions: model.Set(page.Items)})
	return nil
}

// UpdateSubmissions sets the spam/deleted flags on the selected submissions
// of the listed bucket, then reloads the list.
func (a *App) UpdateSubmissions(ctx context.Context, flags model.SubmissionFlags) error {
	s := a.store.Snapshot()
	return a.updateSubmissions(ctx, s, bucketIDOf(s.Bucket), s.Selected, flags)
}

// UpdateSubmissionsIn is UpdateSubmissions for an explicit bucket and id set.
func (a *App) UpdateSubmissionsIn(ctx context.Context, bucketID string, ids []string, flags model.SubmissionFlags) error {
	return a.updateSubmissions(ctx, a.store.Snapshot(), bucketID, ids, flags)
}

// DestroySubmissions permanently deletes the selected submissions of the
// listed bucket, then reloads the list.
func (a *App) DestroySubmissions(ctx context.Context) error {
	s := a.store.Snapshot()
	return a.destroySubmissions(ctx, s, bucketIDOf(s.Bucket), s.Selected)
}

// DestroySubmissionsIn is DestroySubmissions for an explicit bucket and id set.
func (a *App) DestroySubmissionsIn(ctx context.Context, bucketID string, ids []string) error {
	return a.destroySubmissions(ctx, a.store.Snapshot(), bucketID, ids)
}

func (a *App) updateSubmissions(ctx context.Context, s model.State, bucketID string, ids []string, flags model.SubmissionFlags) error {
	return a.bulkSubmissions(ctx, "update submissions", s, bucketID, ids, func(ctx context.Context) (int, error) {
		return a.api.UpdateSubmissions(ctx, bucketID, ids, flags)
	})
}

func (a *App) destroySubmissions(ctx context.Context, s model.State, bucketID string, ids []string) error {
	return a.bulkSubmissions(ctx, "destroy submissions", s, bucketID, ids, func(ctx context.Context) (int, error) {
		return a.api.DeleteSubmissions(ctx, bucketID, ids)
	})
}

// bulkSubmissions clears the selection, runs a bulk mutation and reloads the
// list that was showing when the action started. Request failures raise an
// alert; the selection stays cleared either way.
func (a *App) bulkSubmissions(ctx context.Context, action string, s model.State, bucketID string, ids []string, mutate func(context.Context) (int, error)) error {
	a.store.SetState(model.Patch{Selected: model.Set([]string{})})

	if bucketID == "" {
		return a.failAlert(action, errors.New("no bucket selected"))
	}
	if len(ids) == 0 {
		return nil
	}

	n, err := mutate(ctx)
	if err != nil {
		return a.failAlert(action, err)
	}
	a.logger.Info("submissions changed", "action", action, "bucket_id", bucketID, "count", n)

	if s.Params == nil {
		return nil
	}
	return a.LoadSubmissions(ctx, *s.Params)
}

func bucketIDOf(b *model.Bucket) string {
	if b == nil {
		return ""
	}
	return b.ID
}
