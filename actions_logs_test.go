package formbucket

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/formbucket/formbucket/model"
)

func TestLoadLogs_DefaultLimit(t *testing.T) {
	app, fake, _ := newFakeApp(t)
	fake.AddLog(model.LogEntry{ID: "l1", Message: "created"})
	fake.AddLog(model.LogEntry{ID: "l2", Message: "updated"})

	if err := app.LoadLogs(context.Background(), 0, 0, ""); err != nil {
		t.Fatalf("LoadLogs() error = %v", err)
	}

	s := app.State()
	if s.Logs == nil {
		t.Fatal("Logs = nil, want a page")
	}
	if s.Logs.Limit != 100 {
		t.Errorf("Limit = %d, want 100", s.Logs.Limit)
	}
	if len(s.Logs.Items) != 2 {
		t.Errorf("len(Items) = %d, want 2", len(s.Logs.Items))
	}
	if s.Loading || !s.Loaded {
		t.Errorf("Loading/Loaded = %v/%v, want false/true", s.Loading, s.Loaded)
	}
	if fake.Calls("GET /api/v1/buckets/{id}") != 0 {
		t.Error("bucket should not be loaded without a bucket id")
	}
}

func TestLoadLogs_WithBucket(t *testing.T) {
	app, fake, _ := newFakeApp(t)
	fake.AddBucket(model.Bucket{ID: "b1", Name: "Contact"})
	fake.AddLog(model.LogEntry{ID: "l1", BucketID: "b1"})
	fake.AddLog(model.LogEntry{ID: "l2", BucketID: "b2"})

	if err := app.LoadLogs(context.Background(), 0, 10, "b1"); err != nil {
		t.Fatalf("LoadLogs() error = %v", err)
	}

	s := app.State()
	if len(s.Logs.Items) != 1 || s.Logs.Items[0].ID != "l1" {
		t.Errorf("Items = %+v, want [l1]", s.Logs.Items)
	}
	if s.SavedBucket == nil || s.SavedBucket.Name != "Contact" {
		t.Errorf("SavedBucket = %+v, want Contact", s.SavedBucket)
	}
	if _, ok := s.BucketByID("b1"); !ok {
		t.Error("bucket should join the collection")
	}
}

func TestLoadLogs_OffsetRecorded(t *testing.T) {
	app, fake, _ := newFakeApp(t)
	for range 3 {
		fake.AddLog(model.LogEntry{})
	}

	if err := app.LoadLogs(context.Background(), 2, 1, ""); err != nil {
		t.Fatalf("LoadLogs() error = %v", err)
	}
	s := app.State()
	if s.CurrentOffset != 2 {
		t.Errorf("CurrentOffset = %d, want 2", s.CurrentOffset)
	}
	if len(s.Logs.Items) != 1 || s.Logs.Total != 3 {
		t.Errorf("page = %+v, want one of three", s.Logs)
	}
}

func TestLoadLogs_LoadingFlag(t *testing.T) {
	release := make(chan struct{})
	stub := &stubAPI{
		logs: func(context.Context, int, int, string) (model.LogPage, error) {
			<-release
			return model.LogPage{}, errors.New("logs offline")
		},
	}
	app, _ := newStubApp(t, stub)

	updates := app.Watch()
	defer app.Unwatch(updates)

	done := make(chan error, 1)
	go func() { done <- app.LoadLogs(context.Background(), 0, 0, "") }()

	if first := <-updates; !first.Loading {
		t.Error("Loading should be set before the request resolves")
	}
	close(release)

	if err := <-done; err == nil {
		t.Fatal("LoadLogs() expected error")
	}
	s := app.State()
	if s.Loading {
		t.Error("Loading should be reset after a failure")
	}
	if s.Error != "logs offline" {
		t.Errorf("Error = %q, want logs offline", s.Error)
	}
}

func TestLoadLog(t *testing.T) {
	app, fake, _ := newFakeApp(t)
	fake.AddLog(model.LogEntry{ID: "l1", Message: "webhook sent"})

	if err := app.LoadLog(context.Background(), "l1"); err != nil {
		t.Fatalf("LoadLog() error = %v", err)
	}
	if s := app.State(); s.Log == nil || s.Log.Message != "webhook sent" {
		t.Errorf("Log = %+v, want l1", s.Log)
	}

	app.ClearLog()
	if app.State().Log != nil {
		t.Error("ClearLog did not clear the entry")
	}

	if err := app.LoadLog(context.Background(), "missing"); err == nil {
		t.Error("LoadLog() expected error for a missing entry")
	}
}

func TestLoadNotifications(t *testing.T) {
	app, fake, _ := newFakeApp(t)
	fake.AddNotification(model.Notification{ID: "n1", BucketID: "b1", MailID: "m1"})
	fake.AddNotification(model.Notification{ID: "n2", BucketID: "b1", MailID: "m2"})
	fake.AddNotification(model.Notification{ID: "n3", BucketID: "b2"})

	if err := app.LoadNotifications(context.Background(), 0, 10, "b1", "m2"); err != nil {
		t.Fatalf("LoadNotifications() error = %v", err)
	}
	s := app.State()
	if s.Notifications == nil || len(s.Notifications.Items) != 1 || s.Notifications.Items[0].ID != "n2" {
		t.Errorf("Notifications = %+v, want [n2]", s.Notifications)
	}

	fake.Fail("GET /api/v1/notifications", http.StatusServiceUnavailable, "queue unavailable")
	if err := app.LoadNotifications(context.Background(), 0, 10, "", ""); err == nil {
		t.Fatal("LoadNotifications() expected error")
	}
	if app.State().Error != "queue unavailable" {
		t.Errorf("Error = %q", app.State().Error)
	}

	app.ClearNotifications()
	if app.State().Notifications != nil {
		t.Error("ClearNotifications did not clear the page")
	}
}
