package store

import (
	"sync"
	"testing"
	"time"

	"github.com/formbucket/formbucket/model"
)

func TestNewMemoryStore(t *testing.T) {
	store := NewMemoryStore(model.Initial("tok"))
	if store == nil {
		t.Fatal("NewMemoryStore() = nil")
	}

	got := store.Snapshot()
	if got.User.Token != "tok" {
		t.Errorf("Snapshot().User.Token = %q, want %q", got.User.Token, "tok")
	}
	if got.UnsavedBucket == nil || got.SavedBucket == nil {
		t.Error("initial unsaved/saved buckets should be empty, not nil")
	}
	if got.Buckets != nil {
		t.Errorf("initial Buckets = %v, want nil", got.Buckets)
	}
}

func TestMemoryStore_SetStateMergesOnlySetFields(t *testing.T) {
	store := NewMemoryStore(model.Initial("tok"))

	store.SetState(model.Patch{Flash: model.Set("Saved")})
	got := store.SetState(model.Patch{Error: model.Set("boom")})

	if got.Flash != "Saved" {
		t.Errorf("Flash = %q, want %q", got.Flash, "Saved")
	}
	if got.Error != "boom" {
		t.Errorf("Error = %q, want %q", got.Error, "boom")
	}
	if got.User.Token != "tok" {
		t.Errorf("User.Token = %q, want untouched %q", got.User.Token, "tok")
	}
}

func TestMemoryStore_SetStateCanClear(t *testing.T) {
	store := NewMemoryStore(model.Initial(""))

	got := store.SetState(model.Patch{
		UnsavedBucket: model.Clear[*model.Bucket](),
		SavedBucket:   model.Set[*model.Bucket](nil),
	})
	if got.UnsavedBucket != nil || got.SavedBucket != nil {
		t.Errorf("buckets = %v / %v, want nil / nil", got.UnsavedBucket, got.SavedBucket)
	}
}

func TestMemoryStore_SnapshotIsCopy(t *testing.T) {
	store := NewMemoryStore(model.Initial(""))
	store.SetState(model.Patch{
		Buckets:  model.Set([]model.Bucket{{ID: "a", EmailTo: []string{"x@example.com"}}}),
		Selected: model.Set([]string{"s1"}),
	})

	snap := store.Snapshot()
	snap.Buckets[0].ID = "mutated"
	snap.Buckets[0].EmailTo[0] = "mutated"
	snap.Selected[0] = "mutated"

	again := store.Snapshot()
	if again.Buckets[0].ID != "a" || again.Buckets[0].EmailTo[0] != "x@example.com" {
		t.Errorf("mutation leaked into store: %+v", again.Buckets[0])
	}
	if again.Selected[0] != "s1" {
		t.Errorf("mutation leaked into store: Selected = %v", again.Selected)
	}
}

func TestMemoryStore_PatchValueIsCopied(t *testing.T) {
	store := NewMemoryStore(model.Initial(""))
	selected := []string{"s1", "s2"}
	store.SetState(model.Patch{Selected: model.Set(selected)})

	selected[0] = "mutated"

	if got := store.Snapshot().Selected[0]; got != "s1" {
		t.Errorf("Selected[0] = %q, want %q", got, "s1")
	}
}

func TestMemoryStore_UpdateSeesCurrentState(t *testing.T) {
	store := NewMemoryStore(model.Initial(""))
	store.SetState(model.Patch{Buckets: model.Set([]model.Bucket{{ID: "1"}})})

	got := store.Update(func(s model.State) model.Patch {
		return model.Patch{Buckets: model.Set(append(s.Buckets, model.Bucket{ID: "2"}))}
	})

	if len(got.Buckets) != 2 || got.Buckets[1].ID != "2" {
		t.Errorf("Buckets = %+v, want [1 2]", got.Buckets)
	}
}

func TestMemoryStore_EmptyPatchDoesNotNotify(t *testing.T) {
	store := NewMemoryStore(model.Initial(""))
	ch := store.Subscribe()
	defer store.Unsubscribe(ch)

	store.SetState(model.Patch{})

	select {
	case s := <-ch:
		t.Errorf("empty patch notified subscriber with %+v", s)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMemoryStore_Subscribe(t *testing.T) {
	store := NewMemoryStore(model.Initial(""))

	ch := store.Subscribe()
	if ch == nil {
		t.Fatal("Subscribe() = nil")
	}

	// update should send to subscriber
	go func() {
		store.SetState(model.Patch{Flash: model.Set("Saved")})
	}()

	select {
	case s := <-ch:
		if s.Flash != "Saved" {
			t.Errorf("received Flash = %v, want %v", s.Flash, "Saved")
		}
	case <-time.After(1 * time.Second):
		t.Error("Subscribe() channel did not receive update")
	}
}

func TestMemoryStore_MultipleSubscribers(t *testing.T) {
	store := NewMemoryStore(model.Initial(""))

	ch1 := store.Subscribe()
	ch2 := store.Subscribe()
	ch3 := store.Subscribe()

	go func() {
		store.SetState(model.Patch{Loaded: model.Set(true)})
	}()

	received := 0
	timeout := time.After(1 * time.Second)

	for received < 3 {
		select {
		case <-ch1:
			received++
		case <-ch2:
			received++
		case <-ch3:
			received++
		case <-timeout:
			t.Fatalf("Only received %d/3 updates", received)
		}
	}
}

func TestMemoryStore_Unsubscribe(t *testing.T) {
	store := NewMemoryStore(model.Initial(""))

	ch := store.Subscribe()
	store.Unsubscribe(ch)

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("Unsubscribe() channel should be closed")
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("Unsubscribe() channel should be closed immediately")
	}

	// second call is a no-op
	store.Unsubscribe(ch)
}

func TestMemoryStore_SlowSubscriberDoesNotBlock(t *testing.T) {
	store := NewMemoryStore(model.Initial(""))

	// create a subscriber but don't read from it
	_ = store.Subscribe()

	done := make(chan bool)
	go func() {
		for i := 0; i < 2*subscriberBuffer; i++ {
			store.SetState(model.Patch{CurrentOffset: model.Set(i)})
		}
		done <- true
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Error("SetState() blocked on slow subscriber")
	}
}

func TestMemoryStore_SubscribersSeeWritesInOrder(t *testing.T) {
	store := NewMemoryStore(model.Initial(""))
	ch := store.Subscribe()
	defer store.Unsubscribe(ch)

	for i := 1; i <= 10; i++ {
		store.SetState(model.Patch{CurrentOffset: model.Set(i)})
	}

	for want := 1; want <= 10; want++ {
		s := <-ch
		if s.CurrentOffset != want {
			t.Fatalf("snapshot CurrentOffset = %d, want %d", s.CurrentOffset, want)
		}
	}
}

func TestMemoryStore_LastWriteWins(t *testing.T) {
	store := NewMemoryStore(model.Initial(""))

	older := model.Patch{Submissions: model.Set([]model.Submission{{ID: "old"}})}
	newer := model.Patch{Submissions: model.Set([]model.Submission{{ID: "new"}})}

	// the order completions reach the store decides the result, not the
	// order the requests were issued in
	store.SetState(newer)
	store.SetState(older)

	if got := store.Snapshot().Submissions[0].ID; got != "old" {
		t.Errorf("Submissions[0].ID = %q, want %q", got, "old")
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewMemoryStore(model.Initial(""))

	var wg sync.WaitGroup
	numGoroutines := 10
	numUpdates := 100

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < numUpdates; j++ {
				store.Update(func(s model.State) model.Patch {
					return model.Patch{CurrentOffset: model.Set(s.CurrentOffset + 1)}
				})
			}
		}()
	}

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < numUpdates; j++ {
				_ = store.Snapshot()
			}
		}()
	}

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch := store.Subscribe()
			time.Sleep(10 * time.Millisecond)
			store.Unsubscribe(ch)
		}()
	}

	wg.Wait()

	if got := store.Snapshot().CurrentOffset; got != numGoroutines*numUpdates {
		t.Errorf("CurrentOffset = %d, want %d (Update must be atomic)", got, numGoroutines*numUpdates)
	}
}
