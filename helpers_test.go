package formbucket

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/formbucket/formbucket/internal/apitest"
	"github.com/formbucket/formbucket/model"
)

var errNotStubbed = errors.New("not stubbed")

// stubAPI is an [API] whose methods are set per test. Unset methods fail.
type stubAPI struct {
	buckets           func(ctx context.Context) ([]model.Bucket, error)
	bucket            func(ctx context.Context, id string) (model.Bucket, error)
	createBucket      func(ctx context.Context, b model.Bucket) (string, error)
	updateBucket      func(ctx context.Context, b model.Bucket) error
	deleteBucket      func(ctx context.Context, id string) error
	exportBucket      func(ctx context.Context, id, format string) (model.ExportFile, error)
	downloadFile      func(ctx context.Context, f model.ExportFile, w io.Writer) (int64, error)
	submissions       func(ctx context.Context, p model.SubmissionParams) (model.SubmissionPage, error)
	updateSubmissions func(ctx context.Context, bucketID string, ids []string, flags model.SubmissionFlags) (int, error)
	deleteSubmissions func(ctx context.Context, bucketID string, ids []string) (int, error)
	profile           func(ctx context.Context) (model.User, error)
	updateUser        func(ctx context.Context, u model.UserUpdates) (model.User, error)
	subscribe         func(ctx context.Context, accountID, token, plan string) (model.User, error)
	unsubscribe       func(ctx context.Context, accountID string) (model.User, error)
	logs              func(ctx context.Context, offset, limit int, bucketID string) (model.LogPage, error)
	log               func(ctx context.Context, id string) (model.LogEntry, error)
	notifications     func(ctx context.Context, offset, limit int, bucketID, mailID string) (model.NotificationPage, error)
}

func (s *stubAPI) Buckets(ctx context.Context) ([]model.Bucket, error) {
	if s.buckets == nil {
		return nil, errNotStubbed
	}
	return s.buckets(ctx)
}

func (s *stubAPI) Bucket(ctx context.Context, id string) (model.Bucket, error) {
	if s.bucket == nil {
		return model.Bucket{}, errNotStubbed
	}
	return s.bucket(ctx, id)
}

func (s *stubAPI) CreateBucket(ctx context.Context, b model.Bucket) (string, error) {
	if s.createBucket == nil {
		return "", errNotStubbed
	}
	return s.createBucket(ctx, b)
}

func (s *stubAPI) UpdateBucket(ctx context.Context, b model.Bucket) error {
	if s.updateBucket == nil {
		return errNotStubbed
	}
	return s.updateBucket(ctx, b)
}

func (s *stubAPI) DeleteBucket(ctx context.Context, id string) error {
	if s.deleteBucket == nil {
		return errNotStubbed
	}
	return s.deleteBucket(ctx, id)
}

func (s *stubAPI) ExportBucket(ctx context.Context, id, format string) (model.ExportFile, error) {
	if s.exportBucket == nil {
		return model.ExportFile{}, errNotStubbed
	}
	return s.exportBucket(ctx, id, format)
}

func (s *stubAPI) DownloadFile(ctx context.Context, f model.ExportFile, w io.Writer) (int64, error) {
	if s.downloadFile == nil {
		return 0, errNotStubbed
	}
	return s.downloadFile(ctx, f, w)
}

func (s *stubAPI) Submissions(ctx context.Context, p model.SubmissionParams) (model.SubmissionPage, error) {
	if s.submissions == nil {
		return model.SubmissionPage{}, errNotStubbed
	}
	return s.submissions(ctx, p)
}

func (s *stubAPI) UpdateSubmissions(ctx context.Context, bucketID string, ids []string, flags model.SubmissionFlags) (int, error) {
	if s.updateSubmissions == nil {
		return 0, errNotStubbed
	}
	return s.updateSubmissions(ctx, bucketID, ids, flags)
}

func (s *stubAPI) DeleteSubmissions(ctx context.Context, bucketID string, ids []string) (int, error) {
	if s.deleteSubmissions == nil {
		return 0, errNotStubbed
	}
	return s.deleteSubmissions(ctx, bucketID, ids)
}

func (s *stubAPI) Profile(ctx context.Context) (model.User, error) {
	if s.profile == nil {
		return model.User{}, errNotStubbed
	}
	return s.profile(ctx)
}

func (s *stubAPI) UpdateUser(ctx context.Context, u model.UserUpdates) (model.User, error) {
	if s.updateUser == nil {
		return model.User{}, errNotStubbed
	}
	return s.updateUser(ctx, u)
}

func (s *stubAPI) Subscribe(ctx context.Context, accountID, token, plan string) (model.User, error) {
	if s.subscribe == nil {
		return model.User{}, errNotStubbed
	}
	return s.subscribe(ctx, accountID, token, plan)
}

func (s *stubAPI) Unsubscribe(ctx context.Context, accountID string) (model.User, error) {
	if s.unsubscribe == nil {
		return model.User{}, errNotStubbed
	}
	return s.unsubscribe(ctx, accountID)
}

func (s *stubAPI) Logs(ctx context.Context, offset, limit int, bucketID string) (model.LogPage, error) {
	if s.logs == nil {
		return model.LogPage{}, errNotStubbed
	}
	return s.logs(ctx, offset, limit, bucketID)
}

func (s *stubAPI) Log(ctx context.Context, id string) (model.LogEntry, error) {
	if s.log == nil {
		return model.LogEntry{}, errNotStubbed
	}
	return s.log(ctx, id)
}

func (s *stubAPI) Notifications(ctx context.Context, offset, limit int, bucketID, mailID string) (model.NotificationPage, error) {
	if s.notifications == nil {
		return model.NotificationPage{}, errNotStubbed
	}
	return s.notifications(ctx, offset, limit, bucketID, mailID)
}

// recorder captures collaborator calls.
type recorder struct {
	mu          sync.Mutex
	navigations []string
	prompts     []string
	alerts      []string
	answer      bool
}

func (r *recorder) navigate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.navigations = append(r.navigations, path)
}

func (r *recorder) confirm(message string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prompts = append(r.prompts, message)
	return r.answer
}

func (r *recorder) alert(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, message)
}

func (r *recorder) Navigations() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.navigations...)
}

func (r *recorder) Prompts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.prompts...)
}

func (r *recorder) Alerts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.alerts...)
}

// newFakeApp returns an App wired to a fresh fake API and a recorder.
func newFakeApp(t *testing.T, opts ...Option) (*App, *apitest.Server, *recorder) {
	t.Helper()

	fake := apitest.NewServer(testLogger())
	t.Cleanup(fake.Close)

	rec := &recorder{answer: true}
	base := []Option{
		WithBaseURL(fake.URL()),
		WithTimeout(2 * time.Second),
		WithLogger(testLogger()),
		WithNavigator(rec.navigate),
		WithConfirmer(rec.confirm),
		WithAlerter(rec.alert),
	}

	app, err := New(append(base, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(app.Close)
	return app, fake, rec
}

// newStubApp returns an App over stub with recording collaborators.
func newStubApp(t *testing.T, stub *stubAPI, opts ...Option) (*App, *recorder) {
	t.Helper()

	rec := &recorder{answer: true}
	base := []Option{
		WithAPI(stub),
		WithLogger(testLogger()),
		WithNavigator(rec.navigate),
		WithConfirmer(rec.confirm),
		WithAlerter(rec.alert),
	}

	app, err := New(append(base, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(app.Close)
	return app, rec
}

func intPtr(v int) *int { return &v }
