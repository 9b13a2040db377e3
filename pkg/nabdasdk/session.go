package nabdasdk

import (
	"context"
	"sync"

	"github.com/nabdaotp/dashboard/pkg/slogx"
	"github.com/nabdaotp/dashboard/pkg/tokenstore"
)

// State is the lifecycle position of a Session.
type State int

const (
	StateHydrating State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateHydrating:
		return "hydrating"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Snapshot is a point in time copy of the session. Mutating it has no effect
// on the session.
type Snapshot struct {
	State      State
	User       *User
	Token      string
	InstanceID string
	Loading    bool
}

// IsAuthenticated reports whether both a credential and an identity are held.
func (s Snapshot) IsAuthenticated() bool {
	return s.Token != "" && s.User != nil
}

// Session is the single owner of the authenticated identity for one client.
// All state changes go through its methods; network calls are made without
// holding the lock, and the token store is always written before memory.
type Session struct {
	api    *Client
	tokens *tokenstore.Store

	mu         sync.RWMutex
	user       *User
	token      string
	instanceID string
	loading    bool
	hydrated   bool
	closed     bool
}

// NewSession returns a session in the hydrating state. Call Hydrate, Login
// or VerifyOTP to settle it.
func NewSession(api *Client) *Session {
	return &Session{
		api:     api,
		tokens:  api.Tokens(),
		loading: true,
	}
}

// Client returns the gateway the session calls through.
func (s *Session) Client() *Client { return s.api }

// Hydrate restores the session from the token store. Only the first call does
// any work. A stored credential is validated with GET /users/me; if that
// fails for any reason the store is cleared and the session is anonymous.
func (s *Session) Hydrate(ctx context.Context) {
	s.mu.Lock()
	if s.hydrated {
		s.mu.Unlock()
		return
	}
	s.hydrated = true
	s.mu.Unlock()

	logger := slogx.FromContext(ctx)

	token := s.tokens.Load(ctx)
	if token == "" {
		s.update(func() { s.loading = false })
		return
	}

	s.tokens.MirrorCookie(token)
	instanceID := s.tokens.SelectedInstance(ctx)
	s.update(func() {
		s.token = token
		s.instanceID = instanceID
	})

	user, err := s.api.Me(ctx)
	if err != nil {
		logger.InfoContext(ctx, "session hydration failed, clearing credential", "err", err)
		s.tokens.Clear(ctx)
		s.update(func() {
			s.token = ""
			s.user = nil
			s.instanceID = ""
			s.loading = false
		})
		return
	}

	s.update(func() {
		s.user = user
		s.loading = false
	})
	logger.DebugContext(ctx, "session hydrated", "user_id", user.ID, "token", slogx.Redact(token))
}

// Login exchanges credentials for a bearer token. When the response does not
// embed the account it is fetched with GET /users/me.
func (s *Session) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	resp, err := s.api.Login(ctx, LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	if err := s.signIn(ctx, resp); err != nil {
		return nil, err
	}

	slogx.FromContext(ctx).InfoContext(ctx, "logged in",
		"user_id", resp.User.ID, "token_field", resp.TokenField.String())
	return resp, nil
}

// Register creates an account. The session is not changed; the account is
// activated through VerifyOTP.
func (s *Session) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	return s.api.Register(ctx, req)
}

// VerifyOTP completes registration and signs the account in. The account is
// normally part of the response; otherwise it is fetched like Login does.
func (s *Session) VerifyOTP(ctx context.Context, email, code string) (*LoginResponse, error) {
	resp, err := s.api.VerifyOTP(ctx, VerifyOTPRequest{Email: email, Code: code})
	if err != nil {
		return nil, err
	}
	if err := s.signIn(ctx, resp); err != nil {
		return nil, err
	}

	slogx.FromContext(ctx).InfoContext(ctx, "account verified", "user_id", resp.User.ID)
	return resp, nil
}

// signIn adopts the credential in resp and settles the account, filling
// resp.User from GET /users/me when the response left it out.
func (s *Session) signIn(ctx context.Context, resp *LoginResponse) error {
	if resp.AccessToken == "" {
		return ErrMissingAccessToken
	}

	s.adoptToken(ctx, resp.AccessToken)

	if resp.User == nil {
		user, err := s.api.Me(ctx)
		if err != nil {
			return err
		}
		resp.User = user
	}
	user := resp.User
	s.update(func() { s.user = user })
	return nil
}

// SelectInstance switches the active tenant instance. Nothing changes locally
// if the backend rejects the selection.
func (s *Session) SelectInstance(ctx context.Context, instanceID string) error {
	if err := s.api.SelectInstance(ctx, instanceID); err != nil {
		return err
	}
	s.tokens.SelectInstance(ctx, instanceID)
	s.update(func() { s.instanceID = instanceID })
	return nil
}

// Logout always ends the session locally, even if the backend call fails.
func (s *Session) Logout(ctx context.Context) {
	if err := s.api.Logout(ctx); err != nil {
		slogx.FromContext(ctx).WarnContext(ctx, "logout request failed, clearing session anyway", "err", err)
	}
	s.tokens.Clear(ctx)
	s.update(func() {
		s.user = nil
		s.token = ""
		s.instanceID = ""
	})
}

// RefreshUser re-reads the account. On failure the cached account is kept,
// unless the failure already cleared the credential.
func (s *Session) RefreshUser(ctx context.Context) error {
	user, err := s.api.Me(ctx)
	if err != nil {
		s.reconcile(ctx)
		return err
	}
	s.update(func() { s.user = user })
	return nil
}

func (s *Session) RequestPasswordReset(ctx context.Context, email string) error {
	return s.api.RequestPasswordReset(ctx, email)
}

func (s *Session) ResetPassword(ctx context.Context, token, newPassword string) error {
	return s.api.ResetPassword(ctx, token, newPassword)
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.reconcile(context.Background())

	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Token:      s.token,
		InstanceID: s.instanceID,
		Loading:    s.loading,
	}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	switch {
	case s.loading:
		snap.State = StateHydrating
	case snap.IsAuthenticated():
		snap.State = StateAuthenticated
	default:
		snap.State = StateAnonymous
	}
	return snap
}

func (s *Session) State() State {
	return s.Snapshot().State
}

// Close tears the session down. Operations still in flight may finish their
// token store writes but no longer change the session.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// adoptToken persists token and settles the session: a sign-in ends any
// pending hydration.
func (s *Session) adoptToken(ctx context.Context, token string) {
	s.tokens.Save(ctx, token)
	s.update(func() {
		s.token = token
		s.hydrated = true
		s.loading = false
	})
}

// reconcile drops an in-memory credential whose stored copy was removed,
// which is how a 401 seen by the gateway reaches the session.
func (s *Session) reconcile(ctx context.Context) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	if token == "" || s.tokens.Load(ctx) != "" {
		return
	}

	s.update(func() {
		if s.token != token {
			return
		}
		s.token = ""
		s.user = nil
		s.instanceID = ""
	})
}

func (s *Session) update(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	fn()
}
