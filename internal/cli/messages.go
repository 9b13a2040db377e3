package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/nabdaotp/dashboard/pkg/nabdasdk"
	"github.com/spf13/cobra"
)

func (c *CLI) messagesCmd() *cobra.Command {
	var q nabdasdk.MessagesQuery

	cmd := &cobra.Command{
		Use:   "messages",
		Short: "List sent OTP messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch nabdasdk.MessageStatus(q.Status) {
			case "", nabdasdk.MessageQueued, nabdasdk.MessageSent, nabdasdk.MessageInvalid:
			default:
				return fmt.Errorf("unknown status %q (queued, sent, invalid)", q.Status)
			}

			sess, _, err := c.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			page, err := sess.Client().Messages(cmd.Context(), q)
			if err != nil {
				return err
			}

			return c.emit(page, func(w io.Writer) {
				if len(page.Data) == 0 {
					fmt.Fprintln(w, "No messages")
					return
				}
				table(w, "ID\tPHONE\tSTATUS\tCREATED\tMESSAGE", func(tw *tabwriter.Writer) {
					for _, m := range page.Data {
						fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", m.ID, m.Phone, m.Status, m.CreatedAt, truncate(m.Message, 40))
					}
				})
				fmt.Fprintf(w, "Page %d of %d (%d total)\n", page.Page, pages(page.Total, page.Limit), page.Total)
			})
		},
	}
	cmd.Flags().StringVar(&q.Status, "status", "", "filter by status (queued, sent, invalid)")
	cmd.Flags().IntVar(&q.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&q.Limit, "limit", 20, "messages per page")
	return onPage(cmd, "/messages")
}

func pages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 1
	}
	return (total + limit - 1) / limit
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
