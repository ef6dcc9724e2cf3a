package api

import (
	"context"
	"net/http"

	"github.com/formbucket/formbucket/model"
)

// Profile fetches the signed-in user's profile.
func (c *Client) Profile(ctx context.Context) (model.User, error) {
	var user model.User
	err := c.do(ctx, http.MethodGet, "/api/v1/profile", nil, nil, &user)
	return user, err
}

// UpdateUser changes profile fields and returns the updated profile.
func (c *Client) UpdateUser(ctx context.Context, updates model.UserUpdates) (model.User, error) {
	var user model.User
	err := c.do(ctx, http.MethodPut, "/api/v1/profile", nil, updates, &user)
	return user, err
}

// Subscribe starts a paid plan for the account using a payment token.
func (c *Client) Subscribe(ctx context.Context, accountID, token, plan string) (model.User, error) {
	body := map[string]string{
		"account_id": accountID,
		"token":      token,
		"plan":       plan,
	}
	var user model.User
	err := c.do(ctx, http.MethodPost, "/api/v1/subscribe", nil, body, &user)
	return user, err
}

// Unsubscribe cancels the account's subscription.
func (c *Client) Unsubscribe(ctx context.Context, accountID string) (model.User, error) {
	body := map[string]string{"account_id": accountID}
	var user model.User
	err := c.do(ctx, http.MethodPost, "/api/v1/unsubscribe", nil, body, &user)
	return user, err
}
