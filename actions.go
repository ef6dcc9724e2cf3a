package formbucket

import "github.com/formbucket/formbucket/model"

// apply merges the patch computed by fn against the current state.
func (a *App) apply(fn func(model.State) model.Patch) model.State {
	return a.store.Update(fn)
}

// ClearBucket forgets the bucket being viewed and edited.
func (a *App) ClearBucket() model.State {
	return a.apply(ClearBucket)
}

// ChangeBucket overlays changes on the unsaved bucket.
func (a *App) ChangeBucket(changes model.BucketChanges) model.State {
	return a.apply(func(s model.State) model.Patch { return ChangeBucket(s, changes) })
}

// ResetBucket resets the unsaved and saved buckets to empty.
func (a *App) ResetBucket() model.State {
	return a.apply(ResetBucket)
}

// SetSelected replaces the set of selected submission ids.
func (a *App) SetSelected(ids []string) model.State {
	return a.apply(func(s model.State) model.Patch { return SetSelected(s, ids) })
}

// SetExpanded replaces the set of expanded submission ids.
func (a *App) SetExpanded(ids []string) model.State {
	return a.apply(func(s model.State) model.Patch { return SetExpanded(s, ids) })
}

// ClearLogs forgets the loaded log page.
func (a *App) ClearLogs() model.State {
	return a.apply(ClearLogs)
}

// ClearLog forgets the loaded log entry.
func (a *App) ClearLog() model.State {
	return a.apply(ClearLog)
}

// ClearNotifications forgets the loaded email queue page.
func (a *App) ClearNotifications() model.State {
	return a.apply(ClearNotifications)
}

// ClearError dismisses the visible error.
func (a *App) ClearError() model.State {
	return a.apply(ClearError)
}

// ClearFlash dismisses the flash message.
func (a *App) ClearFlash() model.State {
	return a.apply(ClearFlash)
}
