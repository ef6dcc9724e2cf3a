package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/formbucket/formbucket/model"
)

func bucketPath(id string) string {
	return "/api/v1/buckets/" + url.PathEscape(id)
}

// Buckets lists every bucket owned by the current user.
func (c *Client) Buckets(ctx context.Context) ([]model.Bucket, error) {
	var buckets []model.Bucket
	if err := c.do(ctx, http.MethodGet, "/api/v1/buckets", nil, nil, &buckets); err != nil {
		return nil, err
	}
	if buckets == nil {
		buckets = []model.Bucket{}
	}
	return buckets, nil
}

// Bucket fetches a single bucket by id.
func (c *Client) Bucket(ctx context.Context, id string) (model.Bucket, error) {
	if id == "" {
		return model.Bucket{}, errors.New("bucket id is required")
	}
	var bucket model.Bucket
	err := c.do(ctx, http.MethodGet, bucketPath(id), nil, nil, &bucket)
	return bucket, err
}

// CreateBucket creates a bucket and returns the server-assigned id.
func (c *Client) CreateBucket(ctx context.Context, bucket model.Bucket) (string, error) {
	var result struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/buckets", nil, bucket, &result); err != nil {
		return "", err
	}
	if result.ID == "" {
		return "", errors.New("create bucket: response has no id")
	}
	return result.ID, nil
}

// UpdateBucket replaces the stored configuration of bucket.ID.
func (c *Client) UpdateBucket(ctx context.Context, bucket model.Bucket) error {
	if bucket.ID == "" {
		return errors.New("bucket id is required")
	}
	return c.do(ctx, http.MethodPut, bucketPath(bucket.ID), nil, bucket, nil)
}

// DeleteBucket deletes a bucket and all of its submissions.
func (c *Client) DeleteBucket(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("bucket id is required")
	}
	return c.do(ctx, http.MethodDelete, bucketPath(id), nil, nil, nil)
}

// ExportBucket asks the server to generate an export of the bucket's
// submissions in the given format ("csv" or "json").
func (c *Client) ExportBucket(ctx context.Context, id, format string) (model.ExportFile, error) {
	if id == "" {
		return model.ExportFile{}, errors.New("bucket id is required")
	}
	query := url.Values{}
	if format != "" {
		query.Set("type", format)
	}
	var file model.ExportFile
	if err := c.do(ctx, http.MethodGet, bucketPath(id)+"/export", query, nil, &file); err != nil {
		return model.ExportFile{}, err
	}
	if file.URL == "" {
		return model.ExportFile{}, errors.New("export bucket: response has no url")
	}
	return file, nil
}

// DownloadFile streams an exported file into w and returns the bytes written.
// Relative URLs resolve against the API base URL. Files hosted elsewhere are
// fetched without the bearer token.
func (c *Client) DownloadFile(ctx context.Context, file model.ExportFile, w io.Writer) (int64, error) {
	resp, cancel, err := c.send(ctx, http.MethodGet, file.URL, nil, nil)
	if err != nil {
		return 0, err
	}
	defer cancel()
	defer func() { _ = resp.Body.Close() }()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("failed to download %s: %w", file.URL, err)
	}
	return n, nil
}
