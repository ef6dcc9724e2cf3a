package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/formbucket/formbucket/model"
)

func pageQuery(offset, limit int) url.Values {
	query := url.Values{}
	query.Set("offset", strconv.Itoa(offset))
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	return query
}

// Logs fetches a page of activity logs, optionally for a single bucket.
func (c *Client) Logs(ctx context.Context, offset, limit int, bucketID string) (model.LogPage, error) {
	query := pageQuery(offset, limit)
	if bucketID != "" {
		query.Set("bucket_id", bucketID)
	}
	var page model.LogPage
	if err := c.do(ctx, http.MethodGet, "/api/v1/logs", query, nil, &page); err != nil {
		return model.LogPage{}, err
	}
	if page.Items == nil {
		page.Items = []model.LogEntry{}
	}
	return page, nil
}

// Log fetches a single log entry.
func (c *Client) Log(ctx context.Context, id string) (model.LogEntry, error) {
	if id == "" {
		return model.LogEntry{}, errors.New("log id is required")
	}
	var entry model.LogEntry
	err := c.do(ctx, http.MethodGet, "/api/v1/logs/"+url.PathEscape(id), nil, nil, &entry)
	return entry, err
}

// Notifications fetches a page of the email queue, optionally narrowed to a
// bucket and/or a single mail id.
func (c *Client) Notifications(ctx context.Context, offset, limit int, bucketID, mailID string) (model.NotificationPage, error) {
	query := pageQuery(offset, limit)
	if bucketID != "" {
		query.Set("bucket_id", bucketID)
	}
	if mailID != "" {
		query.Set("mail_id", mailID)
	}
	var page model.NotificationPage
	if err := c.do(ctx, http.MethodGet, "/api/v1/notifications", query, nil, &page); err != nil {
		return model.NotificationPage{}, err
	}
	if page.Items == nil {
		page.Items = []model.Notification{}
	}
	return page, nil
}
