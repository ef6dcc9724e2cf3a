package model

// Field is one optional entry of a [Patch]. A zero Field leaves the state
// untouched; a set Field overwrites it, including with a nil value.
type Field[T any] struct {
	Value T
	Set   bool
}

// Set returns a Field that overwrites the state with v.
func Set[T any](v T) Field[T] {
	return Field[T]{Value: v, Set: true}
}

// Clear returns a Field that overwrites the state with the zero value of T.
func Clear[T any]() Field[T] {
	return Field[T]{Set: true}
}

func (f Field[T]) apply(dst *T) {
	if f.Set {
		*dst = f.Value
	}
}

// Patch is a typed partial state. Merging a patch replaces exactly the fields
// it sets and nothing else.
type Patch struct {
	User            Field[User]
	CurrentBucketID Field[string]
	UnsavedBucket   Field[*Bucket]
	SavedBucket     Field[*Bucket]
	Buckets         Field[[]Bucket]
	Bucket          Field[*Bucket]
	Params          Field[*SubmissionParams]
	Submissions     Field[[]Submission]
	Total           Field[*int]
	TotalSpam       Field[*int]
	TotalDeleted    Field[*int]
	Selected        Field[[]string]
	Expanded        Field[[]string]
	Logs            Field[*LogPage]
	Log             Field[*LogEntry]
	CurrentOffset   Field[int]
	Loading         Field[bool]
	Loaded          Field[bool]
	Notifications   Field[*NotificationPage]
	Flash           Field[string]
	Error           Field[string]
}

// IsEmpty reports whether p sets no field.
func (p Patch) IsEmpty() bool {
	return !(p.User.Set || p.CurrentBucketID.Set || p.UnsavedBucket.Set || p.SavedBucket.Set ||
		p.Buckets.Set || p.Bucket.Set || p.Params.Set || p.Submissions.Set ||
		p.Total.Set || p.TotalSpam.Set || p.TotalDeleted.Set || p.Selected.Set ||
		p.Expanded.Set || p.Logs.Set || p.Log.Set || p.CurrentOffset.Set ||
		p.Loading.Set || p.Loaded.Set || p.Notifications.Set || p.Flash.Set || p.Error.Set)
}

// Apply shallow-merges p into s and returns the result. s is not modified.
func (p Patch) Apply(s State) State {
	p.User.apply(&s.User)
	p.CurrentBucketID.apply(&s.CurrentBucketID)
	p.UnsavedBucket.apply(&s.UnsavedBucket)
	p.SavedBucket.apply(&s.SavedBucket)
	p.Buckets.apply(&s.Buckets)
	p.Bucket.apply(&s.Bucket)
	p.Params.apply(&s.Params)
	p.Submissions.apply(&s.Submissions)
	p.Total.apply(&s.Total)
	p.TotalSpam.apply(&s.TotalSpam)
	p.TotalDeleted.apply(&s.TotalDeleted)
	p.Selected.apply(&s.Selected)
	p.Expanded.apply(&s.Expanded)
	p.Logs.apply(&s.Logs)
	p.Log.apply(&s.Log)
	p.CurrentOffset.apply(&s.CurrentOffset)
	p.Loading.apply(&s.Loading)
	p.Loaded.apply(&s.Loaded)
	p.Notifications.apply(&s.Notifications)
	p.Flash.apply(&s.Flash)
	p.Error.apply(&s.Error)
	return s
}
