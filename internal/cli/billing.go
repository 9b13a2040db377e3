package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (c *CLI) billingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "billing",
		Short: "Plans, subscription, trial and invoices",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "plans",
			Short: "List available plans",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				sess, _, err := c.signedIn(cmd.Context())
				if err != nil {
					return err
				}
				plans, err := sess.Client().Plans(cmd.Context())
				if err != nil {
					return err
				}
				return c.emit(plans, func(w io.Writer) {
					table(w, "ID\tNAME\tPRICE\tFEATURES", func(tw *tabwriter.Writer) {
						for _, p := range plans {
							fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\n", p.ID, p.Name, p.Price, strings.Join(p.Features, ", "))
						}
					})
				})
			},
		},
		&cobra.Command{
			Use:   "invoices",
			Short: "List invoices",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				sess, _, err := c.signedIn(cmd.Context())
				if err != nil {
					return err
				}
				invoices, err := sess.Client().Invoices(cmd.Context())
				if err != nil {
					return err
				}
				return c.emit(invoices, func(w io.Writer) {
					if len(invoices) == 0 {
						fmt.Fprintln(w, "No invoices")
						return
					}
					table(w, "ID\tDATE\tAMOUNT\tSTATUS\tPDF", func(tw *tabwriter.Writer) {
						for _, inv := range invoices {
							fmt.Fprintf(tw, "%s\t%s\t%.2f %s\t%s\t%s\n", inv.ID, inv.CreatedAt, inv.Amount, inv.Currency, inv.Status, inv.PDFURL)
						}
					})
				})
			},
		},
		&cobra.Command{
			Use:   "subscribe <plan-id>",
			Short: "Subscribe to a plan",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				sess, _, err := c.signedIn(cmd.Context())
				if err != nil {
					return err
				}
				if err := sess.Client().Subscribe(cmd.Context(), args[0]); err != nil {
					return err
				}
				return c.done("Subscribed to %s", args[0])
			},
		},
		&cobra.Command{
			Use:   "trial-start <plan-id>",
			Short: "Start a free trial of a plan",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				sess, _, err := c.signedIn(cmd.Context())
				if err != nil {
					return err
				}
				if err := sess.Client().StartTrial(cmd.Context(), args[0]); err != nil {
					return err
				}
				return c.done("Trial started for %s", args[0])
			},
		},
		&cobra.Command{
			Use:   "trial-extend",
			Short: "Extend the running trial",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				sess, _, err := c.signedIn(cmd.Context())
				if err != nil {
					return err
				}
				if err := sess.Client().ExtendTrial(cmd.Context()); err != nil {
					return err
				}
				return c.done("Trial extended")
			},
		},
		&cobra.Command{
			Use:       "auto-renew <on|off>",
			Short:     "Turn subscription auto renewal on or off",
			Args:      cobra.ExactArgs(1),
			ValidArgs: []string{"on", "off"},
			RunE: func(cmd *cobra.Command, args []string) error {
				enabled, err := parseOnOff(args[0])
				if err != nil {
					return err
				}
				sess, _, err := c.signedIn(cmd.Context())
				if err != nil {
					return err
				}
				if err := sess.Client().SetAutoRenew(cmd.Context(), enabled); err != nil {
					return err
				}
				return c.done("Auto renewal %s", onOff(enabled))
			},
		},
	)
	return onPage(cmd, "/billing")
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
	return b, nil
}
