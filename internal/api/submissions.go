package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/formbucket/formbucket/model"
)

// Submissions queries one page of a bucket's submissions.
//
// Zero Limit and empty Select, Query or Type are left out of the query so the
// server applies its own defaults.
func (c *Client) Submissions(ctx context.Context, params model.SubmissionParams) (model.SubmissionPage, error) {
	if params.BucketID == "" {
		return model.SubmissionPage{}, errors.New("bucket id is required")
	}

	query := url.Values{}
	query.Set("offset", strconv.Itoa(params.Offset))
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Select != "" {
		query.Set("select", params.Select)
	}
	if params.Query != "" {
		query.Set("q", params.Query)
	}
	if params.Type != "" {
		query.Set("type", string(params.Type))
	}

	var page model.SubmissionPage
	if err := c.do(ctx, http.MethodGet, bucketPath(params.BucketID)+"/submissions", query, nil, &page); err != nil {
		return model.SubmissionPage{}, err
	}
	if page.Items == nil {
		page.Items = []model.Submission{}
	}
	return page, nil
}

// UpdateSubmissions sets the spam and deleted flags on every submission in ids
// and returns how many were changed.
func (c *Client) UpdateSubmissions(ctx context.Context, bucketID string, ids []string, flags model.SubmissionFlags) (int, error) {
	if bucketID == "" {
		return 0, errors.New("bucket id is required")
	}
	body := struct {
		IDs []string `json:"ids"`
		model.SubmissionFlags
	}{IDs: ids, SubmissionFlags: flags}

	var result struct {
		Updated int `json:"updated"`
	}
	err := c.do(ctx, http.MethodPut, bucketPath(bucketID)+"/submissions", nil, body, &result)
	return result.Updated, err
}

// DeleteSubmissions permanently deletes every submission in ids and returns
// how many were removed.
func (c *Client) DeleteSubmissions(ctx context.Context, bucketID string, ids []string) (int, error) {
	if bucketID == "" {
		return 0, errors.New("bucket id is required")
	}
	body := struct {
		IDs []string `json:"ids"`
	}{IDs: ids}

	var result struct {
		Deleted int `json:"deleted"`
	}
	err := c.do(ctx, http.MethodDelete, bucketPath(bucketID)+"/submissions", nil, body, &result)
	return result.Deleted, err
}
