// Package model defines the records held in the client-side application state
// and the typed patch used to change it.
//
// Every entity here is a plain value decoded from the remote API. Entities are
// ephemeral: they are replaced wholesale on each successful fetch and dropped
// when the view that needed them goes away.
package model

import "time"

// User is the signed-in account: authentication token, profile fields and
// subscription status.
type User struct {
	// Token is the API bearer token. It is read from local storage at startup
	// and is never sent back to the server as part of the profile.
	Token string `json:"token,omitempty"`

	ID        string `json:"id,omitempty"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	AccountID string `json:"account_id,omitempty"`
	Plan      string `json:"plan,omitempty"`

	// Status is the subscription status (e.g. "active", "trialing", "canceled").
	Status string `json:"status,omitempty"`
}

// UserUpdates carries the profile fields to change. Nil fields are left alone.
type UserUpdates struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

// Bucket is a named endpoint that receives form submissions.
type Bucket struct {
	ID                 string     `json:"id,omitempty"`
	Name               string     `json:"name,omitempty"`
	Enabled            bool       `json:"enabled"`
	EmailTo            []string   `json:"email_to,omitempty"`
	EmailNotifications bool       `json:"email_notifications"`
	RedirectURL        string     `json:"redirect_url,omitempty"`
	WebhookURL         string     `json:"webhook_url,omitempty"`
	RequiredFields     []string   `json:"required_fields,omitempty"`
	CreatedOn          *time.Time `json:"created_on,omitempty"`
	UpdatedOn          *time.Time `json:"updated_on,omitempty"`
}

// Clone returns a copy of b that shares no slices with it.
func (b Bucket) Clone() Bucket {
	b.EmailTo = cloneStrings(b.EmailTo)
	b.RequiredFields = cloneStrings(b.RequiredFields)
	return b
}

// BucketChanges is a partial edit of a [Bucket]. Nil fields are left alone.
type BucketChanges struct {
	Name               *string   `json:"name,omitempty"`
	Enabled            *bool     `json:"enabled,omitempty"`
	EmailTo            *[]string `json:"email_to,omitempty"`
	EmailNotifications *bool     `json:"email_notifications,omitempty"`
	RedirectURL        *string   `json:"redirect_url,omitempty"`
	WebhookURL         *string   `json:"webhook_url,omitempty"`
	RequiredFields     *[]string `json:"required_fields,omitempty"`
}

// Apply returns b with every set field of c overlaid on it.
func (b Bucket) Apply(c BucketChanges) Bucket {
	out := b.Clone()
	if c.Name != nil {
		out.Name = *c.Name
	}
	if c.Enabled != nil {
		out.Enabled = *c.Enabled
	}
	if c.EmailTo != nil {
		out.EmailTo = cloneStrings(*c.EmailTo)
	}
	if c.EmailNotifications != nil {
		out.EmailNotifications = *c.EmailNotifications
	}
	if c.RedirectURL != nil {
		out.RedirectURL = *c.RedirectURL
	}
	if c.WebhookURL != nil {
		out.WebhookURL = *c.WebhookURL
	}
	if c.RequiredFields != nil {
		out.RequiredFields = cloneStrings(*c.RequiredFields)
	}
	return out
}

// SubmissionType filters a submission query by folder.
type SubmissionType string

const (
	SubmissionsInbox   SubmissionType = "inbox"
	SubmissionsSpam    SubmissionType = "spam"
	SubmissionsDeleted SubmissionType = "deleted"
)

// Submission is one record of user-submitted data belonging to exactly one bucket.
type Submission struct {
	ID        string         `json:"id"`
	BucketID  string         `json:"bucket_id,omitempty"`
	CreatedOn *time.Time     `json:"created_on,omitempty"`
	Spam      bool           `json:"spam"`
	Deleted   bool           `json:"deleted"`
	Data      map[string]any `json:"data,omitempty"`
}

// SubmissionPage is one page of a submission query with folder counts.
type SubmissionPage struct {
	Items        []Submission `json:"items"`
	Total        int          `json:"total"`
	TotalSpam    int          `json:"totalSpam"`
	TotalDeleted int          `json:"totalDeleted"`
}

// SubmissionParams describes the submission list a view is showing.
type SubmissionParams struct {
	BucketID string         `json:"id"`
	Offset   int            `json:"offset"`
	Limit    int            `json:"limit"`
	Select   string         `json:"select,omitempty"`
	Query    string         `json:"q,omitempty"`
	Type     SubmissionType `json:"type,omitempty"`
}

// SubmissionFlags is the bulk update applied to a set of submissions.
type SubmissionFlags struct {
	Spam    bool `json:"spam"`
	Deleted bool `json:"deleted"`
}

// LogEntry records one piece of bucket activity.
type LogEntry struct {
	ID        string         `json:"id"`
	BucketID  string         `json:"bucket_id,omitempty"`
	Type      string         `json:"type,omitempty"`
	Message   string         `json:"message,omitempty"`
	CreatedOn *time.Time     `json:"created_on,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// LogPage is an offset/limit page of log entries.
type LogPage struct {
	Items  []LogEntry `json:"items"`
	Offset int        `json:"offset"`
	Limit  int        `json:"limit"`
	Total  int        `json:"total"`
}

// Notification is an item in the outgoing email queue.
type Notification struct {
	ID        string     `json:"id"`
	BucketID  string     `json:"bucket_id,omitempty"`
	MailID    string     `json:"mail_id,omitempty"`
	To        []string   `json:"to,omitempty"`
	Subject   string     `json:"subject,omitempty"`
	Status    string     `json:"status,omitempty"`
	Error     string     `json:"error,omitempty"`
	CreatedOn *time.Time `json:"created_on,omitempty"`
	SentOn    *time.Time `json:"sent_on,omitempty"`
}

// NotificationPage is an offset/limit page of the email queue.
type NotificationPage struct {
	Items  []Notification `json:"items"`
	Offset int            `json:"offset"`
	Limit  int            `json:"limit"`
	Total  int            `json:"total"`
}

// ExportFile points at a generated bucket export ready for download.
type ExportFile struct {
	URL      string `json:"url"`
	Filename string `json:"filename,omitempty"`
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}
