package model

import (
	"reflect"
	"testing"
)

func TestPatchIsEmpty(t *testing.T) {
	if !(Patch{}).IsEmpty() {
		t.Error("zero Patch should be empty")
	}
	if (Patch{Error: Clear[string]()}).IsEmpty() {
		t.Error("a cleared field is a change")
	}
	if (Patch{Loaded: Set(false)}).IsEmpty() {
		t.Error("setting a zero value is a change")
	}
}

func TestPatchApply(t *testing.T) {
	total := 3
	s := State{
		User:     User{Token: "tok", Name: "Owner"},
		Buckets:  []Bucket{{ID: "b1"}},
		Selected: []string{"s1"},
		Total:    &total,
		Flash:    "Saved",
	}

	got := Patch{
		Selected: Set([]string{}),
		Total:    Clear[*int](),
		Error:    Set("boom"),
	}.Apply(s)

	if got.User != s.User || !reflect.DeepEqual(got.Buckets, s.Buckets) || got.Flash != "Saved" {
		t.Error("unset fields must be left alone")
	}
	if got.Selected == nil || len(got.Selected) != 0 {
		t.Errorf("Selected = %v, want empty non-nil", got.Selected)
	}
	if got.Total != nil {
		t.Errorf("Total = %v, want nil", got.Total)
	}
	if got.Error != "boom" {
		t.Errorf("Error = %q, want boom", got.Error)
	}
	if s.Error != "" || s.Total == nil {
		t.Error("Apply modified its input")
	}
}

func TestStateClone(t *testing.T) {
	total := 1
	s := State{
		UnsavedBucket: &Bucket{ID: "b1", EmailTo: []string{"a@example.com"}},
		Buckets:       []Bucket{{ID: "b1", RequiredFields: []string{"email"}}},
		Params:        &SubmissionParams{BucketID: "b1"},
		Submissions:   []Submission{},
		Total:         &total,
		Selected:      []string{},
		Logs:          &LogPage{Items: []LogEntry{{ID: "l1"}}},
	}

	c := s.Clone()
	if !reflect.DeepEqual(c, s) {
		t.Fatalf("Clone() = %+v, want equal to %+v", c, s)
	}

	c.UnsavedBucket.EmailTo[0] = "changed"
	c.Buckets[0].RequiredFields[0] = "changed"
	c.Params.BucketID = "changed"
	*c.Total = 99
	c.Logs.Items[0].ID = "changed"

	if s.UnsavedBucket.EmailTo[0] != "a@example.com" || s.Buckets[0].RequiredFields[0] != "email" {
		t.Error("bucket slices are shared")
	}
	if s.Params.BucketID != "b1" || *s.Total != 1 || s.Logs.Items[0].ID != "l1" {
		t.Error("pointers are shared")
	}
	if c.Submissions == nil || c.Selected == nil {
		t.Error("empty slices must stay non-nil")
	}
}

func TestBucketApply(t *testing.T) {
	name := "New"
	enabled := true
	emails := []string{"x@example.com"}
	b := Bucket{ID: "b1", Name: "Old", RedirectURL: "https://example.com/thanks"}

	got := b.Apply(BucketChanges{Name: &name, Enabled: &enabled, EmailTo: &emails})

	if got.ID != "b1" || got.Name != "New" || !got.Enabled || got.RedirectURL != b.RedirectURL {
		t.Errorf("Apply() = %+v", got)
	}
	emails[0] = "changed"
	if got.EmailTo[0] != "x@example.com" {
		t.Error("EmailTo shares the caller's slice")
	}
	if b.Name != "Old" {
		t.Error("Apply modified its receiver")
	}
}

func TestInitial(t *testing.T) {
	s := Initial("tok")
	if s.User.Token != "tok" {
		t.Errorf("Token = %q, want tok", s.User.Token)
	}
	if s.UnsavedBucket == nil || s.SavedBucket == nil {
		t.Error("unsaved and saved buckets should start empty, not nil")
	}
	if s.Buckets != nil || s.Submissions != nil || s.Logs != nil {
		t.Error("collections should start unloaded")
	}
}
