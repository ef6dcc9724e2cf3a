package formbucket

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/formbucket/formbucket/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew_RequiresBaseURLOrAPI(t *testing.T) {
	_, err := New()
	if err == nil {
		t.Fatal("New() expected error without base url or api, got nil")
	}
	if !strings.Contains(err.Error(), "base url") {
		t.Errorf("New() error = %v, want mention of base url", err)
	}
}

func TestNew_InvalidBaseURL(t *testing.T) {
	_, err := New(WithBaseURL("not a url"))
	if err == nil {
		t.Fatal("New() expected error for invalid base url, got nil")
	}
}

func TestNew_Defaults(t *testing.T) {
	app, err := New(WithBaseURL("https://app.formbucket.com"), WithLogger(testLogger()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer app.Close()

	if app.flashDuration != 2*time.Second {
		t.Errorf("flashDuration = %v, want 2s", app.flashDuration)
	}
	if app.client == nil {
		t.Error("built-in client not created")
	}

	s := app.State()
	if s.UnsavedBucket == nil || s.SavedBucket == nil {
		t.Error("initial state should carry empty unsaved and saved buckets")
	}
	if s.User.Token != "" {
		t.Errorf("User.Token = %q, want empty", s.User.Token)
	}
}

func TestWithToken_SeedsState(t *testing.T) {
	app, err := New(WithBaseURL("https://app.formbucket.com"), WithToken("tok"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer app.Close()

	if got := app.State().User.Token; got != "tok" {
		t.Errorf("User.Token = %q, want tok", got)
	}
}

func TestWithBaseURL_Empty(t *testing.T) {
	if _, err := New(WithBaseURL("")); err == nil {
		t.Error("New() expected error for empty base url, got nil")
	}
}

func TestWithTimeout_Invalid(t *testing.T) {
	tests := []time.Duration{0, -time.Second}
	for _, d := range tests {
		if _, err := New(WithBaseURL("https://app.formbucket.com"), WithTimeout(d)); err == nil {
			t.Errorf("WithTimeout(%v) expected error, got nil", d)
		}
	}
}

func TestWithFlashDuration(t *testing.T) {
	app, err := New(WithAPI(&stubAPI{}), WithFlashDuration(500*time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if app.flashDuration != 500*time.Millisecond {
		t.Errorf("flashDuration = %v, want 500ms", app.flashDuration)
	}

	if _, err := New(WithAPI(&stubAPI{}), WithFlashDuration(0)); err == nil {
		t.Error("WithFlashDuration(0) expected error, got nil")
	}
}

func TestWithHTTPClient_Nil(t *testing.T) {
	if _, err := New(WithBaseURL("https://app.formbucket.com"), WithHTTPClient(nil)); err == nil {
		t.Error("WithHTTPClient(nil) expected error, got nil")
	}
	if _, err := New(WithBaseURL("https://app.formbucket.com"), WithHTTPClient(&http.Client{})); err != nil {
		t.Errorf("WithHTTPClient() error = %v", err)
	}
}

func TestWithAPI(t *testing.T) {
	if _, err := New(WithAPI(nil)); err == nil {
		t.Error("WithAPI(nil) expected error, got nil")
	}

	stub := &stubAPI{}
	app, err := New(WithAPI(stub))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if app.api != stub {
		t.Error("injected api not used")
	}
	if app.client != nil {
		t.Error("built-in client should not be created when an api is injected")
	}
	// Close must cope with no owned client
	app.Close()
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	app, err := New(WithAPI(&stubAPI{}), WithLogger(logger))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if app.logger != logger {
		t.Error("logger was not set")
	}

	app.navigate("/buckets")
	if !strings.Contains(buf.String(), "/buckets") {
		t.Errorf("default navigator should log the path, got %q", buf.String())
	}
}

func TestWithLogger_Nil(t *testing.T) {
	if _, err := New(WithAPI(&stubAPI{}), WithLogger(nil)); err == nil {
		t.Error("WithLogger(nil) expected error, got nil")
	}
}

func TestWithCollaborators_NilIgnored(t *testing.T) {
	app, err := New(WithAPI(&stubAPI{}), WithNavigator(nil), WithConfirmer(nil), WithAlerter(nil), WithLogger(testLogger()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if app.navigate == nil || app.confirm == nil || app.alert == nil {
		t.Fatal("defaults should be installed when nil collaborators are passed")
	}
	if app.confirm("Continue?") {
		t.Error("default confirmer should decline")
	}
}

func TestDefaultConfirmer_DeclinesDelete(t *testing.T) {
	stub := &stubAPI{
		deleteBucket: func(ctx context.Context, id string) error {
			t.Error("DeleteBucket request sent without confirmation")
			return nil
		},
	}
	saved := model.Bucket{ID: "b1"}
	app, err := New(WithAPI(stub), WithLogger(testLogger()), WithInitialState(model.State{SavedBucket: &saved}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := app.DeleteBucket(context.Background()); !errors.Is(err, ErrNotConfirmed) {
		t.Errorf("DeleteBucket() error = %v, want ErrNotConfirmed", err)
	}
}

func TestWithInitialState(t *testing.T) {
	initial := model.State{
		Buckets:  []model.Bucket{{ID: "b1"}},
		Selected: []string{"s1"},
	}
	app, err := New(WithAPI(&stubAPI{}), WithInitialState(initial), WithToken("ignored"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// mutating the caller's copy must not leak in
	initial.Buckets[0].ID = "changed"

	s := app.State()
	if len(s.Buckets) != 1 || s.Buckets[0].ID != "b1" {
		t.Errorf("Buckets = %+v, want [b1]", s.Buckets)
	}
	if s.User.Token != "" {
		t.Errorf("User.Token = %q, want empty (initial state wins)", s.User.Token)
	}
}

func TestWithDevtools_Invalid(t *testing.T) {
	tests := []int{0, -1, 65536}
	for _, port := range tests {
		if _, err := New(WithAPI(&stubAPI{}), WithDevtools(port)); err == nil {
			t.Errorf("WithDevtools(%d) expected error, got nil", port)
		}
	}
}

func TestStartDevtools_NotEnabled(t *testing.T) {
	app, err := New(WithAPI(&stubAPI{}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := app.StartDevtools(context.Background()); err == nil {
		t.Error("StartDevtools() expected error when devtools are disabled")
	}
}
