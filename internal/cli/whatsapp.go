package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func (c *CLI) whatsappCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whatsapp",
		Short: "Manage the WhatsApp connection of the active instance",
	}

	// simple wraps the endpoints that return nothing worth printing.
	simple := func(use, short, msg string, call func(cmd *cobra.Command) error) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := call(cmd); err != nil {
					return err
				}
				return c.done("%s", msg)
			},
		}
	}

	cmd.AddCommand(
		simple("connect", "Start a WhatsApp session", "Connecting. Scan the code from: nabdactl whatsapp qr",
			func(cmd *cobra.Command) error {
				sess, _, err := c.signedIn(cmd.Context())
				if err != nil {
					return err
				}
				return sess.Client().WhatsAppConnect(cmd.Context())
			}),
		simple("disconnect", "End the WhatsApp session", "Disconnected",
			func(cmd *cobra.Command) error {
				sess, _, err := c.signedIn(cmd.Context())
				if err != nil {
					return err
				}
				return sess.Client().WhatsAppDisconnect(cmd.Context())
			}),
		simple("restart", "Restart the WhatsApp session", "Restarting",
			func(cmd *cobra.Command) error {
				sess, _, err := c.signedIn(cmd.Context())
				if err != nil {
					return err
				}
				return sess.Client().WhatsAppRestart(cmd.Context())
			}),
		&cobra.Command{
			Use:   "qr",
			Short: "Print the pairing QR payload",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				sess, _, err := c.signedIn(cmd.Context())
				if err != nil {
					return err
				}
				qr, err := sess.Client().WhatsAppQR(cmd.Context())
				if err != nil {
					return err
				}
				return c.emit(qr, func(w io.Writer) { fmt.Fprintln(w, qr.QR) })
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show whether WhatsApp is connected",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				sess, _, err := c.signedIn(cmd.Context())
				if err != nil {
					return err
				}
				st, err := sess.Client().WhatsAppStatus(cmd.Context())
				if err != nil {
					return err
				}
				return c.emit(st, func(w io.Writer) {
					if !st.Connected {
						fmt.Fprintln(w, "Not connected")
						return
					}
					fmt.Fprintf(w, "Connected as %s\n", st.Phone)
					if st.SessionExpiresIn != "" {
						fmt.Fprintf(w, "Session expires in %s\n", st.SessionExpiresIn)
					}
				})
			},
		},
		&cobra.Command{
			Use:   "health",
			Short: "Show WhatsApp service health",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				sess, _, err := c.signedIn(cmd.Context())
				if err != nil {
					return err
				}
				h, err := sess.Client().WhatsAppHealth(cmd.Context())
				if err != nil {
					return err
				}
				return c.emit(h, func(w io.Writer) { fmt.Fprintln(w, h.Status) })
			},
		},
	)
	return onPage(cmd, "/instances")
}
