package nabdasdk

import "context"

// Account mutations that change what /users/me returns re-read the account
// afterwards so the session stays current.

func (s *Session) UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error) {
	if _, err := s.api.UpdateProfile(ctx, update); err != nil {
		return nil, err
	}
	if err := s.RefreshUser(ctx); err != nil {
		return nil, err
	}
	return s.Snapshot().User, nil
}

func (s *Session) Confirm2FA(ctx context.Context, code string) error {
	if err := s.api.Confirm2FA(ctx, code); err != nil {
		return err
	}
	return s.RefreshUser(ctx)
}

func (s *Session) Disable2FA(ctx context.Context, code string) error {
	if err := s.api.Disable2FA(ctx, code); err != nil {
		return err
	}
	return s.RefreshUser(ctx)
}
