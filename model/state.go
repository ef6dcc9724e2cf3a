package model

// State is the entire client-side application state.
//
// Nil pointers and nil slices mean "not loaded" (or explicitly cleared), which
// views render differently from an empty result.
type State struct {
	User            User   `json:"user"`
	CurrentBucketID string `json:"currentBucketId,omitempty"`

	// UnsavedBucket is the in-progress edited copy of the bucket being
	// configured; SavedBucket is its last persisted copy.
	UnsavedBucket *Bucket `json:"unsavedBucket"`
	SavedBucket   *Bucket `json:"savedBucket"`

	// Buckets is the full bucket collection in display order.
	Buckets []Bucket `json:"buckets"`

	// Bucket is the bucket whose submissions are currently listed.
	Bucket       *Bucket           `json:"bucket"`
	Params       *SubmissionParams `json:"params"`
	Submissions  []Submission      `json:"submissions"`
	Total        *int              `json:"total"`
	TotalSpam    *int              `json:"totalSpam"`
	TotalDeleted *int              `json:"totalDeleted"`

	// Selected and Expanded are sets of submission ids.
	Selected []string `json:"selected"`
	Expanded []string `json:"expanded"`

	Logs          *LogPage  `json:"logs"`
	Log           *LogEntry `json:"log"`
	CurrentOffset int       `json:"currentOffset"`
	Loading       bool      `json:"loading"`
	Loaded        bool      `json:"loaded"`

	Notifications *NotificationPage `json:"notifications"`

	Flash string `json:"flash,omitempty"`
	Error string `json:"error,omitempty"`
}

// Initial returns the state an application starts with: a user holding only
// the stored token and empty unsaved/saved buckets.
func Initial(token string) State {
	return State{
		User:          User{Token: token},
		UnsavedBucket: &Bucket{},
		SavedBucket:   &Bucket{},
	}
}

// BucketByID looks up a bucket in the collection.
func (s State) BucketByID(id string) (Bucket, bool) {
	for _, b := range s.Buckets {
		if b.ID == id {
			return b, true
		}
	}
	return Bucket{}, false
}

// Clone returns a copy of s that shares no mutable memory with it. Submission
// and log payload maps are shared; they are never mutated after decoding.
func (s State) Clone() State {
	out := s
	out.UnsavedBucket = cloneBucketPtr(s.UnsavedBucket)
	out.SavedBucket = cloneBucketPtr(s.SavedBucket)
	out.Bucket = cloneBucketPtr(s.Bucket)
	if s.Buckets != nil {
		out.Buckets = make([]Bucket, len(s.Buckets))
		for i, b := range s.Buckets {
			out.Buckets[i] = b.Clone()
		}
	}
	if s.Params != nil {
		p := *s.Params
		out.Params = &p
	}
	if s.Submissions != nil {
		out.Submissions = append(make([]Submission, 0, len(s.Submissions)), s.Submissions...)
	}
	out.Total = cloneIntPtr(s.Total)
	out.TotalSpam = cloneIntPtr(s.TotalSpam)
	out.TotalDeleted = cloneIntPtr(s.TotalDeleted)
	out.Selected = cloneStrings(s.Selected)
	out.Expanded = cloneStrings(s.Expanded)
	if s.Logs != nil {
		l := *s.Logs
		l.Items = append(make([]LogEntry, 0, len(s.Logs.Items)), s.Logs.Items...)
		out.Logs = &l
	}
	if s.Log != nil {
		l := *s.Log
		out.Log = &l
	}
	if s.Notifications != nil {
		n := *s.Notifications
		n.Items = append(make([]Notification, 0, len(s.Notifications.Items)), s.Notifications.Items...)
		out.Notifications = &n
	}
	return out
}

func cloneBucketPtr(b *Bucket) *Bucket {
	if b == nil {
		return nil
	}
	c := b.Clone()
	return &c
}

func cloneIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
