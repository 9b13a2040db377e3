package nabdasdk

import "context"

// Raw auth endpoint calls. They do not touch session state; use Session for
// the stateful flows.

// Login posts credentials to /auth/login and returns the decoded response.
// The credential is not stored.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.Post(ctx, "/api/v1/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an unverified account. The backend sends a verification
// code.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var resp RegisterResponse
	if err := c.Post(ctx, "/api/v1/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyOTP submits the registration code. A successful response carries a
// credential in the same shape as Login.
func (c *Client) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.Post(ctx, "/api/v1/auth/verify-otp", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SelectInstance tells the backend which tenant instance later calls act on.
func (c *Client) SelectInstance(ctx context.Context, instanceID string) error {
	return c.Post(ctx, "/api/v1/auth/select-instance", SelectInstanceRequest{InstanceID: instanceID}, nil)
}

// Logout revokes the current credential on the backend.
func (c *Client) Logout(ctx context.Context) error {
	return c.Post(ctx, "/api/v1/auth/logout", nil, nil)
}

// RequestPasswordReset asks the backend to email a reset link to email.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.Post(ctx, "/api/v1/auth/request-reset", RequestResetRequest{Email: email}, nil)
}

// ResetPassword sets newPassword using the token from a reset link.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	return c.Post(ctx, "/api/v1/auth/reset-password", ResetPasswordRequest{Token: token, NewPassword: newPassword}, nil)
}

// Me fetches the account behind the current credential.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.Get(ctx, "/api/v1/users/me", &u); err != nil {
		return nil, err
	}
	return &u, nil
}
