package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/nabdaotp/dashboard/pkg/nabdasdk"
	"github.com/spf13/cobra"
)

func (c *CLI) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage the account profile",
	}

	var name, phone, email string
	update := &cobra.Command{
		Use:   "update",
		Short: "Change name, phone or email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var upd nabdasdk.ProfileUpdate
			if cmd.Flags().Changed("name") {
				upd.Name = &name
			}
			if cmd.Flags().Changed("phone") {
				upd.Phone = &phone
			}
			if cmd.Flags().Changed("email") {
				upd.Email = &email
			}
			if upd.Name == nil && upd.Phone == nil && upd.Email == nil {
				return errors.New("nothing to update; pass --name, --phone or --email")
			}

			sess, _, err := c.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := sess.UpdateProfile(cmd.Context(), upd); err != nil {
				return err
			}

			snap := sess.Snapshot()
			return c.emit(snap.User, func(w io.Writer) { printUser(w, snap.User) })
		},
	}
	update.Flags().StringVar(&name, "name", "", "full name")
	update.Flags().StringVar(&phone, "phone", "", "phone number")
	update.Flags().StringVar(&email, "email", "", "email address")

	cmd.AddCommand(update)
	return onPage(cmd, "/settings")
}

func (c *CLI) passwordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Manage the account password",
	}

	var change nabdasdk.PasswordChange
	changeCmd := &cobra.Command{
		Use:   "change",
		Short: "Change the password of the signed in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if change.CurrentPassword, err = c.secretOrPrompt(change.CurrentPassword, "Current password"); err != nil {
				return err
			}
			if change.NewPassword, err = c.secretOrPrompt(change.NewPassword, "New password"); err != nil {
				return err
			}

			sess, _, err := c.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			if err := sess.Client().ChangePassword(cmd.Context(), change); err != nil {
				return err
			}
			return c.done("Password changed")
		},
	}
	changeCmd.Flags().StringVar(&change.CurrentPassword, "current", "", "current password")
	changeCmd.Flags().StringVar(&change.NewPassword, "new", "", "new password")

	cmd.AddCommand(changeCmd)
	return onPage(cmd, "/settings")
}

func (c *CLI) twoFactorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "2fa",
		Short: "Manage two factor authentication",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "enable",
			Short: "Start enabling 2FA; a code is sent to confirm",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				sess, _, err := c.signedIn(cmd.Context())
				if err != nil {
					return err
				}
				if err := sess.Client().Enable2FA(cmd.Context()); err != nil {
					return err
				}
				return c.done("Code sent. Finish with: nabdactl 2fa confirm <code>")
			},
		},
		&cobra.Command{
			Use:   "confirm <code>",
			Short: "Confirm 2FA with the code that was sent",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				sess, _, err := c.signedIn(cmd.Context())
				if err != nil {
					return err
				}
				if err := sess.Confirm2FA(cmd.Context(), args[0]); err != nil {
					return err
				}
				return c.twoFactorState(sess)
			},
		},
		&cobra.Command{
			Use:   "request-disable",
			Short: "Request a code to turn 2FA off",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				sess, _, err := c.signedIn(cmd.Context())
				if err != nil {
					return err
				}
				if err := sess.Client().RequestDisable2FA(cmd.Context()); err != nil {
					return err
				}
				return c.done("Code sent. Finish with: nabdactl 2fa disable <code>")
			},
		},
		&cobra.Command{
			Use:   "disable <code>",
			Short: "Turn 2FA off with the code that was sent",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				sess, _, err := c.signedIn(cmd.Context())
				if err != nil {
					return err
				}
				if err := sess.Disable2FA(cmd.Context(), args[0]); err != nil {
					return err
				}
				return c.twoFactorState(sess)
			},
		},
	)
	return onPage(cmd, "/settings")
}

func (c *CLI) twoFactorState(sess *nabdasdk.Session) error {
	snap := sess.Snapshot()
	enabled := snap.User != nil && snap.User.TwoFactorEnabled
	return c.emit(map[string]bool{"twoFactorEnabled": enabled}, func(w io.Writer) {
		fmt.Fprintf(w, "Two factor authentication is %s\n", onOff(enabled))
	})
}
