package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/nabdaotp/dashboard/pkg/jwtx"
	"github.com/nabdaotp/dashboard/pkg/nabdasdk"
	"github.com/spf13/cobra"
)

func (c *CLI) loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the credential in the state file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			email, err := c.valueOrPrompt(email, "Email")
			if err != nil {
				return err
			}
			password, err := c.secretOrPrompt(password, "Password")
			if err != nil {
				return err
			}

			sess, err := c.hydrated(ctx)
			if err != nil {
				return err
			}
			if _, err := sess.Login(ctx, email, password); err != nil {
				return loginError(err, email)
			}

			snap := sess.Snapshot()
			return c.emit(snap.User, func(w io.Writer) {
				fmt.Fprintf(w, "Signed in as %s <%s>\n", snap.User.Name, snap.User.Email)
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email (prompted when empty)")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when empty)")
	return onPage(cmd, "/login")
}

// loginError turns a failed sign in into the message the login form shows.
func loginError(err error, email string) error {
	if errors.Is(err, nabdasdk.ErrMissingAccessToken) {
		return err
	}
	switch nabdasdk.ClassifyAuthError(err) {
	case nabdasdk.AuthFailureInvalidCredentials:
		return errors.New("invalid email or password")
	case nabdasdk.AuthFailureUnverified:
		return fmt.Errorf("account not verified; run 'nabdactl verify-otp --email %s'", email)
	default:
		return errors.New(nabdasdk.UserMessage(err))
	}
}

func (c *CLI) registerCmd() *cobra.Command {
	var req nabdasdk.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account; a verification code is emailed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var err error
			if req.Name, err = c.valueOrPrompt(req.Name, "Name"); err != nil {
				return err
			}
			if req.Email, err = c.valueOrPrompt(req.Email, "Email"); err != nil {
				return err
			}
			if req.Password, err = c.secretOrPrompt(req.Password, "Password"); err != nil {
				return err
			}

			sess, err := c.hydrated(ctx)
			if err != nil {
				return err
			}
			resp, err := sess.Register(ctx, req)
			if err != nil {
				return errors.New(nabdasdk.UserMessage(err))
			}

			return c.emit(resp, func(w io.Writer) {
				if resp.Message != "" {
					fmt.Fprintln(w, resp.Message)
				}
				fmt.Fprintf(w, "Verify with: nabdactl verify-otp --email %s --code <code>\n", req.Email)
			})
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "full name")
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&req.Password, "password", "", "account password")
	return onPage(cmd, "/signup")
}

func (c *CLI) verifyOTPCmd() *cobra.Command {
	var email, code string

	cmd := &cobra.Command{
		Use:   "verify-otp",
		Short: "Confirm the emailed code and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			email, err := c.valueOrPrompt(email, "Email")
			if err != nil {
				return err
			}
			code, err := c.valueOrPrompt(code, "Code")
			if err != nil {
				return err
			}

			sess, err := c.hydrated(ctx)
			if err != nil {
				return err
			}
			resp, err := sess.VerifyOTP(ctx, email, code)
			if err != nil {
				if errors.Is(err, nabdasdk.ErrMissingAccessToken) {
					return err
				}
				return errors.New(nabdasdk.UserMessage(err))
			}

			return c.emit(resp.User, func(w io.Writer) {
				fmt.Fprintf(w, "Email verified. Signed in as %s <%s>\n", resp.User.Name, resp.User.Email)
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&code, "code", "", "verification code")
	return onPage(cmd, "/verify-otp")
}

func (c *CLI) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.hydrated(cmd.Context())
			if err != nil {
				return err
			}
			sess.Logout(cmd.Context())
			return c.done("Signed out")
		},
	}
}

func (c *CLI) whoamiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, snap, err := c.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			return c.emit(snap.User, func(w io.Writer) { printUser(w, snap.User) })
		},
	}
	return onPage(cmd, "/dashboard")
}

type statusReport struct {
	State         string     `json:"state"`
	User          string     `json:"user,omitempty"`
	InstanceID    string     `json:"instanceId,omitempty"`
	Cookie        bool       `json:"cookie"`
	TokenExpires  *time.Time `json:"tokenExpires,omitempty"`
	TokenExpired  bool       `json:"tokenExpired"`
	BackendURL    string     `json:"backendUrl"`
	DashboardURL  string     `json:"dashboardUrl"`
	StateFile     string     `json:"stateFile"`
	StateIsSealed bool       `json:"stateSealed"`
}

func (c *CLI) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show session state, credential expiry and where state is kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.hydrated(cmd.Context())
			if err != nil {
				return err
			}
			snap := sess.Snapshot()

			report := statusReport{
				State:         snap.State.String(),
				InstanceID:    snap.InstanceID,
				Cookie:        c.hasCredentialCookie(),
				BackendURL:    c.client.BaseURL(),
				DashboardURL:  c.dashboard.String(),
				StateFile:     c.cfg.StateFile,
				StateIsSealed: c.cfg.MasterKey != "" || c.cfg.MasterKeyFile != "",
			}
			if snap.User != nil {
				report.User = snap.User.Email
			}
			if exp, err := jwtx.ExpiresAt(snap.Token); err == nil {
				report.TokenExpires = &exp
				report.TokenExpired = !c.now().Before(exp)
			}

			return c.emit(report, func(w io.Writer) {
				fmt.Fprintf(w, "State:      %s\n", report.State)
				if report.User != "" {
					fmt.Fprintf(w, "User:       %s\n", report.User)
				}
				if report.InstanceID != "" {
					fmt.Fprintf(w, "Instance:   %s\n", report.InstanceID)
				}
				fmt.Fprintf(w, "Cookie:     %t\n", report.Cookie)
				if report.TokenExpires != nil {
					fmt.Fprintf(w, "Expires:    %s\n", report.TokenExpires.Format(time.RFC3339))
				}
				fmt.Fprintf(w, "Backend:    %s\n", report.BackendURL)
				fmt.Fprintf(w, "Dashboard:  %s\n", report.DashboardURL)
				fmt.Fprintf(w, "State file: %s\n", report.StateFile)
			})
		},
	}
}

func (c *CLI) selectInstanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select-instance <instance-id>",
		Short: "Switch the active instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := c.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			if err := sess.SelectInstance(cmd.Context(), args[0]); err != nil {
				return err
			}
			return c.done("Active instance: %s", args[0])
		},
	}
	return onPage(cmd, "/instances")
}

func (c *CLI) forgotPasswordCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Email a password reset link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := c.valueOrPrompt(email, "Email")
			if err != nil {
				return err
			}
			sess, err := c.hydrated(cmd.Context())
			if err != nil {
				return err
			}
			if err := sess.RequestPasswordReset(cmd.Context(), email); err != nil {
				return errors.New(nabdasdk.UserMessage(err))
			}
			return c.done("If %s has an account, a reset link is on its way", email)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	return onPage(cmd, "/forgot-password")
}

func (c *CLI) resetPasswordCmd() *cobra.Command {
	var token, password string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password with the token from the reset link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := c.valueOrPrompt(token, "Token")
			if err != nil {
				return err
			}
			password, err := c.secretOrPrompt(password, "New password")
			if err != nil {
				return err
			}
			sess, err := c.hydrated(cmd.Context())
			if err != nil {
				return err
			}
			if err := sess.ResetPassword(cmd.Context(), token, password); err != nil {
				return errors.New(nabdasdk.UserMessage(err))
			}
			return c.done("Password updated. Sign in with: nabdactl login")
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "reset token")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	return onPage(cmd, "/reset-password")
}
