package nabdasdk

import "context"

// UpdateProfile patches the signed in account and returns it as stored.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error) {
	var u User
	if err := c.Patch(ctx, "/api/v1/users/me", update, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ChangePassword replaces the account password. The current password is
// required.
func (c *Client) ChangePassword(ctx context.Context, change PasswordChange) error {
	return c.Patch(ctx, "/api/v1/users/me/password", change, nil)
}

// Enable2FA starts second factor enrolment; the backend sends a code.
func (c *Client) Enable2FA(ctx context.Context) error {
	return c.Post(ctx, "/api/v1/auth/enable-2fa", nil, nil)
}

// Confirm2FA finishes enrolment with the code the backend sent.
func (c *Client) Confirm2FA(ctx context.Context, code string) error {
	return c.Post(ctx, "/api/v1/auth/confirm-2fa", map[string]string{"code": code}, nil)
}

func (c *Client) RequestDisable2FA(ctx context.Context) error {
	return c.Post(ctx, "/api/v1/auth/request-disable-2fa", nil, nil)
}

func (c *Client) Disable2FA(ctx context.Context, code string) error {
	return c.Post(ctx, "/api/v1/auth/disable-2fa", map[string]string{"code": code}, nil)
}
