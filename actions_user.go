package formbucket

import (
	"context"

	"github.com/formbucket/formbucket/model"
)

// UpdateUser changes profile fields and returns the updated profile. The
// state is left for the caller to refresh (e.g. with LoadProfile).
func (a *App) UpdateUser(ctx context.Context, updates model.UserUpdates) (model.User, error) {
	user, err := a.api.UpdateUser(ctx, updates)
	if err != nil {
		return model.User{}, a.fail("update user", err)
	}
	return user, nil
}

// LoadProfile replaces the user with the server's profile. The stored token
// is kept when the profile does not carry one.
func (a *App) LoadProfile(ctx context.Context) error {
	user, err := a.api.Profile(ctx)
	if err != nil {
		return a.fail("load profile", err)
	}
	a.setUser(user)
	return nil
}

// Subscribe starts a paid plan and replaces the user with the result.
func (a *App) Subscribe(ctx context.Context, accountID, paymentToken, plan string) error {
	user, err := a.api.Subscribe(ctx, accountID, paymentToken, plan)
	if err != nil {
		return a.fail("subscribe", err)
	}
	a.setUser(user)
	a.logger.Info("subscribed", "account_id", accountID, "plan", plan)
	return nil
}

// CancelSubscription cancels the account's plan and marks the current user
// as canceled.
func (a *App) CancelSubscription(ctx context.Context, accountID string) error {
	if _, err := a.api.Unsubscribe(ctx, accountID); err != nil {
		return a.fail("cancel subscription", err)
	}
	a.apply(func(s model.State) model.Patch {
		user := s.User
		user.Status = "canceled"
		return model.Patch{User: model.Set(user)}
	})
	a.logger.Info("subscription canceled", "account_id", accountID)
	return nil
}

func (a *App) setUser(user model.User) {
	a.apply(func(s model.State) model.Patch {
		if user.Token == "" {
			user.Token = s.User.Token
		}
		return model.Patch{User: model.Set(user)}
	})
}
