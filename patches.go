package formbucket

import (
	"strings"

	"github.com/formbucket/formbucket/model"
)

// Navigation targets used by the bucket actions.
const BucketsPath = "/buckets"

// BucketSettingsPath returns the settings page of a bucket.
func BucketSettingsPath(id string) string {
	return BucketsPath + "/" + id + "/settings"
}

// The functions below are the synchronous actions: pure functions of the
// current state and their arguments. The App methods of the same name merge
// their result into the store.

// ClearBucket forgets the bucket being viewed and edited.
func ClearBucket(model.State) model.Patch {
	return model.Patch{
		Bucket:        model.Clear[*model.Bucket](),
		SavedBucket:   model.Clear[*model.Bucket](),
		UnsavedBucket: model.Clear[*model.Bucket](),
	}
}

// ChangeBucket overlays changes on the unsaved bucket.
func ChangeBucket(s model.State, changes model.BucketChanges) model.Patch {
	var base model.Bucket
	if s.UnsavedBucket != nil {
		base = *s.UnsavedBucket
	}
	unsaved := base.Apply(changes)
	return model.Patch{UnsavedBucket: model.Set(&unsaved)}
}

// ResetBucket resets the unsaved and saved buckets together to empty.
func ResetBucket(model.State) model.Patch {
	return model.Patch{
		UnsavedBucket: model.Set(&model.Bucket{}),
		SavedBucket:   model.Set(&model.Bucket{}),
	}
}

// SetSelected replaces the set of selected submission ids.
func SetSelected(_ model.State, ids []string) model.Patch {
	return model.Patch{Selected: model.Set(dedupe(ids))}
}

// SetExpanded replaces the set of expanded submission ids.
func SetExpanded(_ model.State, ids []string) model.Patch {
	return model.Patch{Expanded: model.Set(dedupe(ids))}
}

// ClearLogs forgets the loaded log page.
func ClearLogs(model.State) model.Patch {
	return model.Patch{Logs: model.Clear[*model.LogPage]()}
}

// ClearLog forgets the loaded log entry.
func ClearLog(model.State) model.Patch {
	return model.Patch{Log: model.Clear[*model.LogEntry]()}
}

// ClearNotifications forgets the loaded email queue page.
func ClearNotifications(model.State) model.Patch {
	return model.Patch{Notifications: model.Clear[*model.NotificationPage]()}
}

// ClearError dismisses the visible error.
func ClearError(model.State) model.Patch {
	return model.Patch{Error: model.Clear[string]()}
}

// ClearFlash dismisses the flash message before its timer does.
func ClearFlash(model.State) model.Patch {
	return model.Patch{Flash: model.Clear[string]()}
}

// bucketLoaded puts bucket into the collection, replacing the entry with the
// same id in place or appending it, and makes it the unsaved and saved copy.
func bucketLoaded(s model.State, id string, bucket model.Bucket) model.Patch {
	buckets := make([]model.Bucket, 0, len(s.Buckets)+1)
	found := false
	for _, b := range s.Buckets {
		if b.ID == id {
			buckets = append(buckets, bucket)
			found = true
			continue
		}
		buckets = append(buckets, b)
	}
	if !found {
		buckets = append(buckets, bucket)
	}

	unsaved, saved := bucket.Clone(), bucket.Clone()
	return model.Patch{
		UnsavedBucket: model.Set(&unsaved),
		SavedBucket:   model.Set(&saved),
		Buckets:       model.Set(buckets),
	}
}

// bucketCreated appends bucket to the collection.
func bucketCreated(s model.State, bucket model.Bucket) model.Patch {
	buckets := make([]model.Bucket, 0, len(s.Buckets)+1)
	buckets = append(buckets, s.Buckets...)
	return model.Patch{Buckets: model.Set(append(buckets, bucket))}
}

// bucketDeleted removes every bucket with id from the collection.
func bucketDeleted(s model.State, id string) model.Patch {
	if s.Buckets == nil {
		return model.Patch{}
	}
	buckets := make([]model.Bucket, 0, len(s.Buckets))
	for _, b := range s.Buckets {
		if b.ID != id {
			buckets = append(buckets, b)
		}
	}
	return model.Patch{Buckets: model.Set(buckets)}
}

// submissionsLoading marks the submission list as reloading for params.
func submissionsLoading(params model.SubmissionParams) model.Patch {
	return model.Patch{
		Params:       model.Set(&params),
		Submissions:  model.Clear[[]model.Submission](),
		Total:        model.Clear[*int](),
		TotalSpam:    model.Clear[*int](),
		TotalDeleted: model.Clear[*int](),
	}
}

// submissionsLoaded replaces the submission list, its counts and the
// selection/expansion sets in one patch. Every returned submission starts
// expanded and none selected.
func submissionsLoaded(bucket model.Bucket, page model.SubmissionPage) model.Patch {
	ids := make([]string, len(page.Items))
	for i, sub := range page.Items {
		ids[i] = sub.ID
	}
	total, spam, deleted := page.Total, page.TotalSpam, page.TotalDeleted
	items := page.Items
	if items == nil {
		items = []model.Submission{}
	}

	return model.Patch{
		Selected:     model.Set([]string{}),
		Expanded:     model.Set(ids),
		Bucket:       model.Set(&bucket),
		Total:        model.Set(&total),
		TotalSpam:    model.Set(&spam),
		TotalDeleted: model.Set(&deleted),
		Submissions:  model.Set(items),
	}
}

// withIDField makes sure a comma-separated field selection includes "id".
// An empty selection asks for every field and is returned as is.
func withIDField(sel string) string {
	if sel == "" {
		return ""
	}
	for _, field := range strings.Split(sel, ",") {
		if strings.TrimSpace(field) == "id" {
			return sel
		}
	}
	return "id," + sel
}

// dedupe returns ids with duplicates removed, keeping first occurrences.
// The result is never nil.
func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
