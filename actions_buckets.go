package formbucket

import (
	"context"
	"errors"
	"io"

	"github.com/formbucket/formbucket/model"
)

const deleteBucketPrompt = "This will delete the bucket and all your submissions. Continue?"

// LoadBuckets replaces the bucket collection with the server's.
func (a *App) LoadBuckets(ctx context.Context) error {
	buckets, err := a.api.Buckets(ctx)
	if err != nil {
		return a.fail("load buckets", err)
	}
	a.store.SetState(model.Patch{Buckets: model.Set(buckets)})
	return nil
}

// LoadBucket fetches one bucket, replaces its entry in the collection (or
// appends it) and makes it both the unsaved and the saved copy.
func (a *App) LoadBucket(ctx context.Context, id string) error {
	bucket, err := a.api.Bucket(ctx, id)
	if err != nil {
		return a.fail("load bucket", err)
	}
	a.apply(func(s model.State) model.Patch { return bucketLoaded(s, id, bucket) })
	return nil
}

// CreateBucket creates bucket on the server, appends it to the collection
// with the server-assigned id and navigates to its settings page.
func (a *App) CreateBucket(ctx context.Context, bucket model.Bucket) (model.Bucket, error) {
	id, err := a.api.CreateBucket(ctx, bucket)
	if err != nil {
		return model.Bucket{}, a.fail("create bucket", err)
	}
	bucket = bucket.Clone()
	bucket.ID = id

	a.apply(func(s model.State) model.Patch { return bucketCreated(s, bucket) })
	a.logger.Info("bucket created", "bucket_id", id)
	a.navigate(BucketSettingsPath(id))
	return bucket, nil
}

// SaveBucket persists the unsaved bucket. On success the saved copy catches
// up with it and a "Saved" flash is shown for the flash duration.
func (a *App) SaveBucket(ctx context.Context) error {
	s := a.store.Snapshot()
	if s.UnsavedBucket == nil || s.UnsavedBucket.ID == "" {
		return a.fail("save bucket", errors.New("no bucket to save"))
	}
	unsaved := *s.UnsavedBucket

	if err := a.api.UpdateBucket(ctx, unsaved); err != nil {
		return a.fail("save bucket", err)
	}
	a.showFlash("Saved", model.Patch{SavedBucket: model.Set(&unsaved)})
	return nil
}

// DeleteBucket deletes the saved bucket after the user confirms.
//
// Declining returns [ErrNotConfirmed] without sending a request or changing
// state. On success the bucket leaves the collection and the view navigates
// to the bucket list.
func (a *App) DeleteBucket(ctx context.Context) error {
	s := a.store.Snapshot()
	if s.SavedBucket == nil || s.SavedBucket.ID == "" {
		return a.fail("delete bucket", errors.New("no bucket selected"))
	}
	id := s.SavedBucket.ID

	if !a.confirm(deleteBucketPrompt) {
		return ErrNotConfirmed
	}

	if err := a.api.DeleteBucket(ctx, id); err != nil {
		return a.fail("delete bucket", err)
	}
	a.apply(func(s model.State) model.Patch { return bucketDeleted(s, id) })
	a.logger.Info("bucket deleted", "bucket_id", id)
	a.navigate(BucketsPath)
	return nil
}

// ExportBucket generates an export of the bucket's submissions in format
// ("csv" or "json") and downloads it into w. Failures raise an alert.
func (a *App) ExportBucket(ctx context.Context, bucket model.Bucket, format string, w io.Writer) error {
	file, err := a.api.ExportBucket(ctx, bucket.ID, format)
	if err != nil {
		return a.failAlert("export bucket", err)
	}
	n, err := a.api.DownloadFile(ctx, file, w)
	if err != nil {
		return a.failAlert("export bucket", err)
	}
	a.logger.Info("bucket exported", "bucket_id", bucket.ID, "file", file.Filename, "bytes", n)
	return nil
}
