// Package apitest provides an in-memory fake of the remote FormBucket API.
//
// The fake speaks the same JSON routes as the real service so the API client,
// the actions and the CLI can be exercised end to end without a network.
// It is used by tests through [NewServer] and by the example mock API binary
// through [Server.Handler].
package apitest

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/formbucket/formbucket/model"
)

// Fault is an injected failure for one route.
type Fault struct {
	Status  int
	Message string
}

// Server is an in-memory FormBucket API.
//
// All state is guarded by a single mutex; handlers are safe for concurrent use.
// Route keys used by [Server.Fail] and [Server.Calls] are the ServeMux
// patterns, e.g. "GET /api/v1/buckets/{id}".
type Server struct {
	mu            sync.Mutex
	token         string
	buckets       []model.Bucket
	submissions   map[string][]model.Submission
	user          model.User
	logs          []model.LogEntry
	notifications []model.Notification
	exports       map[string][]byte
	faults        map[string]Fault
	calls         map[string]int
	logger        *slog.Logger

	httpServer *httptest.Server
}

// New creates an empty fake API that is not yet listening.
func New(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		submissions: make(map[string][]model.Submission),
		exports:     make(map[string][]byte),
		faults:      make(map[string]Fault),
		calls:       make(map[string]int),
		user:        model.User{ID: "usr_1", Email: "owner@example.com", Name: "Owner", Status: "active"},
		logger:      logger,
	}
}

// NewServer creates a fake API listening on a local httptest server.
// Call [Server.Close] when done.
func NewServer(logger *slog.Logger) *Server {
	s := New(logger)
	s.httpServer = httptest.NewServer(s.Handler())
	return s
}

// URL returns the base URL of the httptest server started by [NewServer].
func (s *Server) URL() string {
	if s.httpServer == nil {
		return ""
	}
	return s.httpServer.URL
}

// Close shuts down the httptest server started by [NewServer].
func (s *Server) Close() {
	if s.httpServer != nil {
		s.httpServer.Close()
	}
}

// Fail makes every request to route answer with the given fault until
// [Server.Recover] is called for it.
func (s *Server) Fail(route string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[route] = Fault{Status: status, Message: message}
}

// Recover removes an injected fault.
func (s *Server) Recover(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.faults, route)
}

// Calls returns how many requests reached route.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// TotalCalls returns how many requests reached any route.
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

// RequireToken makes every request carry token as its bearer credential.
// An empty token turns the check off.
func (s *Server) RequireToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// SetUser replaces the signed-in user's profile.
func (s *Server) SetUser(u model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

// AddBucket stores a bucket, assigning an id when it has none.
func (s *Server) AddBucket(b model.Bucket) model.Bucket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addBucketLocked(b)
}

func (s *Server) addBucketLocked(b model.Bucket) model.Bucket {
	if b.ID == "" {
		b.ID = "buk_" + shortID()
	}
	now := time.Now().UTC()
	if b.CreatedOn == nil {
		b.CreatedOn = &now
	}
	s.buckets = append(s.buckets, b.Clone())
	return b
}

// AddSubmission stores a submission under its bucket, assigning an id when it has none.
func (s *Server) AddSubmission(sub model.Submission) model.Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub.ID == "" {
		sub.ID = "sub_" + shortID()
	}
	s.submissions[sub.BucketID] = append(s.submissions[sub.BucketID], sub)
	return sub
}

// AddLog stores a log entry, assigning an id when it has none.
func (s *Server) AddLog(entry model.LogEntry) model.LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.ID == "" {
		entry.ID = "log_" + shortID()
	}
	s.logs = append(s.logs, entry)
	return entry
}

// AddNotification stores an email queue item, assigning an id when it has none.
func (s *Server) AddNotification(n model.Notification) model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n.ID == "" {
		n.ID = "ntf_" + shortID()
	}
	s.notifications = append(s.notifications, n)
	return n
}

// Buckets returns a copy of the stored buckets.
func (s *Server) Buckets() []model.Bucket {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Bucket, len(s.buckets))
	for i, b := range s.buckets {
		out[i] = b.Clone()
	}
	return out
}

// Submission looks up a stored submission.
func (s *Server) Submission(bucketID, id string) (model.Submission, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.submissions[bucketID] {
		if sub.ID == id {
			return sub, true
		}
	}
	return model.Submission{}, false
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	s.route(mux, "GET /api/v1/buckets", s.handleListBuckets)
	s.route(mux, "POST /api/v1/buckets", s.handleCreateBucket)
	s.route(mux, "GET /api/v1/buckets/{id}", s.handleGetBucket)
	s.route(mux, "PUT /api/v1/buckets/{id}", s.handleUpdateBucket)
	s.route(mux, "DELETE /api/v1/buckets/{id}", s.handleDeleteBucket)
	s.route(mux, "GET /api/v1/buckets/{id}/export", s.handleExport)
	s.route(mux, "GET /exports/{name}", s.handleDownload)
	s.route(mux, "GET /api/v1/buckets/{id}/submissions", s.handleListSubmissions)
	s.route(mux, "PUT /api/v1/buckets/{id}/submissions", s.handleUpdateSubmissions)
	s.route(mux, "DELETE /api/v1/buckets/{id}/submissions", s.handleDeleteSubmissions)
	s.route(mux, "GET /api/v1/profile", s.handleProfile)
	s.route(mux, "PUT /api/v1/profile", s.handleUpdateProfile)
	s.route(mux, "POST /api/v1/subscribe", s.handleSubscribe)
	s.route(mux, "POST /api/v1/unsubscribe", s.handleUnsubscribe)
	s.route(mux, "GET /api/v1/logs", s.handleListLogs)
	s.route(mux, "GET /api/v1/logs/{id}", s.handleGetLog)
	s.route(mux, "GET /api/v1/notifications", s.handleListNotifications)

	return mux
}

// route registers h behind call counting, fault injection and auth checks.
func (s *Server) route(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[pattern]++
		fault, failing := s.faults[pattern]
		token := s.token
		s.mu.Unlock()

		s.logger.Debug("fake api request", "route", pattern, "request_id", r.Header.Get("X-Request-ID"))

		if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if failing {
			writeError(w, fault.Status, fault.Message)
			return
		}
		h(w, r)
	})
}

func (s *Server) handleListBuckets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Buckets())
}

func (s *Server) handleCreateBucket(w http.ResponseWriter, r *http.Request) {
	var b model.Bucket
	if !readJSON(w, r, &b) {
		return
	}
	b.ID = ""
	s.mu.Lock()
	created := s.addBucketLocked(b)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, map[string]string{"id": created.ID})
}

func (s *Server) handleGetBucket(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.bucketIndexLocked(r.PathValue("id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "bucket not found")
		return
	}
	writeJSON(w, http.StatusOK, s.buckets[i])
}

func (s *Server) handleUpdateBucket(w http.ResponseWriter, r *http.Request) {
	var b model.Bucket
	if !readJSON(w, r, &b) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.bucketIndexLocked(r.PathValue("id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "bucket not found")
		return
	}
	now := time.Now().UTC()
	b.ID = s.buckets[i].ID
	b.CreatedOn = s.buckets[i].CreatedOn
	b.UpdatedOn = &now
	s.buckets[i] = b.Clone()
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleDeleteBucket(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := r.PathValue("id")
	i := s.bucketIndexLocked(id)
	if i < 0 {
		writeError(w, http.StatusNotFound, "bucket not found")
		return
	}
	s.buckets = append(s.buckets[:i], s.buckets[i+1:]...)
	delete(s.submissions, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("type")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "json" {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported export type %q", format))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := r.PathValue("id")
	if s.bucketIndexLocked(id) < 0 {
		writeError(w, http.StatusNotFound, "bucket not found")
		return
	}

	var content []byte
	if format == "json" {
		content, _ = json.Marshal(s.submissions[id])
	} else {
		content = submissionsCSV(s.submissions[id])
	}
	name := id + "-" + shortID() + "." + format
	s.exports[name] = content
	writeJSON(w, http.StatusOK, model.ExportFile{URL: "/exports/" + name, Filename: id + "." + format})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	content, ok := s.exports[r.PathValue("name")]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "export not found")
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(content)
}

func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	offset, _ := strconv.Atoi(q.Get("offset"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	kind := model.SubmissionType(q.Get("type"))
	if kind == "" {
		kind = model.SubmissionsInbox
	}
	text := strings.ToLower(q.Get("q"))

	s.mu.Lock()
	defer s.mu.Unlock()
	id := r.PathValue("id")
	if s.bucketIndexLocked(id) < 0 {
		writeError(w, http.StatusNotFound, "bucket not found")
		return
	}

	var page model.SubmissionPage
	var matched []model.Submission
	for _, sub := range s.submissions[id] {
		switch {
		case sub.Deleted:
			page.TotalDeleted++
		case sub.Spam:
			page.TotalSpam++
		default:
			page.Total++
		}
		if submissionType(sub) != kind {
			continue
		}
		if text != "" && !strings.Contains(strings.ToLower(fmt.Sprint(sub.Data)), text) {
			continue
		}
		matched = append(matched, selectFields(sub, q.Get("select")))
	}

	page.Items = paginate(matched, offset, limit)
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleUpdateSubmissions(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDs     []string `json:"ids"`
		Spam    bool     `json:"spam"`
		Deleted bool     `json:"deleted"`
	}
	if !readJSON(w, r, &body) {
		return
	}
	want := toSet(body.IDs)

	s.mu.Lock()
	defer s.mu.Unlock()
	subs := s.submissions[r.PathValue("id")]
	n := 0
	for i := range subs {
		if _, ok := want[subs[i].ID]; ok {
			subs[i].Spam = body.Spam
			subs[i].Deleted = body.Deleted
			n++
		}
	}
	writeJSON(w, http.StatusOK, map[string]int{"updated": n})
}

func (s *Server) handleDeleteSubmissions(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDs []string `json:"ids"`
	}
	if !readJSON(w, r, &body) {
		return
	}
	drop := toSet(body.IDs)

	s.mu.Lock()
	defer s.mu.Unlock()
	id := r.PathValue("id")
	kept := s.submissions[id][:0]
	n := 0
	for _, sub := range s.submissions[id] {
		if _, ok := drop[sub.ID]; ok {
			n++
			continue
		}
		kept = append(kept, sub)
	}
	s.submissions[id] = kept
	writeJSON(w, http.StatusOK, map[string]int{"deleted": n})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.user)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var updates model.UserUpdates
	if !readJSON(w, r, &updates) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if updates.Name != nil {
		s.user.Name = *updates.Name
	}
	if updates.Email != nil {
		s.user.Email = *updates.Email
	}
	writeJSON(w, http.StatusOK, s.user)
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AccountID string `json:"account_id"`
		Token     string `json:"token"`
		Plan      string `json:"plan"`
	}
	if !readJSON(w, r, &body) {
		return
	}
	if body.Token == "" || body.Plan == "" {
		writeError(w, http.StatusBadRequest, "payment token and plan are required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user.AccountID = body.AccountID
	s.user.Plan = body.Plan
	s.user.Status = "active"
	writeJSON(w, http.StatusOK, s.user)
}

func (s *Server) handleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AccountID string `json:"account_id"`
	}
	if !readJSON(w, r, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user.Status = "canceled"
	writeJSON(w, http.StatusOK, s.user)
}

func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	offset, _ := strconv.Atoi(q.Get("offset"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	bucketID := q.Get("bucket_id")

	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []model.LogEntry
	for _, entry := range s.logs {
		if bucketID == "" || entry.BucketID == bucketID {
			matched = append(matched, entry)
		}
	}
	writeJSON(w, http.StatusOK, model.LogPage{
		Items:  paginate(matched, offset, limit),
		Offset: offset,
		Limit:  limit,
		Total:  len(matched),
	})
}

func (s *Server) handleGetLog(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range s.logs {
		if entry.ID == r.PathValue("id") {
			writeJSON(w, http.StatusOK, entry)
			return
		}
	}
	writeError(w, http.StatusNotFound, "log not found")
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	offset, _ := strconv.Atoi(q.Get("offset"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	bucketID, mailID := q.Get("bucket_id"), q.Get("mail_id")

	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []model.Notification
	for _, n := range s.notifications {
		if bucketID != "" && n.BucketID != bucketID {
			continue
		}
		if mailID != "" && n.MailID != mailID {
			continue
		}
		matched = append(matched, n)
	}
	writeJSON(w, http.StatusOK, model.NotificationPage{
		Items:  paginate(matched, offset, limit),
		Offset: offset,
		Limit:  limit,
		Total:  len(matched),
	})
}

func (s *Server) bucketIndexLocked(id string) int {
	for i, b := range s.buckets {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func submissionType(sub model.Submission) model.SubmissionType {
	switch {
	case sub.Deleted:
		return model.SubmissionsDeleted
	case sub.Spam:
		return model.SubmissionsSpam
	default:
		return model.SubmissionsInbox
	}
}

// selectFields narrows Data to the comma-separated field list. The "id"
// entry names the submission id, which is always present.
func selectFields(sub model.Submission, sel string) model.Submission {
	if sel == "" || sub.Data == nil {
		return sub
	}
	data := make(map[string]any)
	for _, field := range strings.Split(sel, ",") {
		field = strings.TrimSpace(field)
		if v, ok := sub.Data[field]; ok {
			data[field] = v
		}
	}
	sub.Data = data
	return sub
}

func submissionsCSV(subs []model.Submission) []byte {
	keys := map[string]struct{}{}
	for _, sub := range subs {
		for k := range sub.Data {
			keys[k] = struct{}{}
		}
	}
	cols := make([]string, 0, len(keys))
	for k := range keys {
		cols = append(cols, k)
	}
	sort.Strings(cols)

	var b strings.Builder
	b.WriteString("id")
	for _, c := range cols {
		b.WriteString("," + c)
	}
	b.WriteString("\n")
	for _, sub := range subs {
		b.WriteString(sub.ID)
		for _, c := range cols {
			b.WriteString("," + fmt.Sprint(sub.Data[c]))
		}
		b.WriteString("\n")
	}
	return []byte(b.String())
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return append([]T{}, items[offset:end]...)
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
