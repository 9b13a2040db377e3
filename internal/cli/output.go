package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/nabdaotp/dashboard/pkg/nabdasdk"
)

// emit prints v as indented JSON under --json, otherwise calls text.
func (c *CLI) emit(v any, text func(w io.Writer)) error {
	if c.jsonOut {
		enc := json.NewEncoder(c.io.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(c.io.Out)
	return nil
}

// done prints a confirmation line, or {"ok":true} under --json.
func (c *CLI) done(format string, args ...any) error {
	return c.emit(map[string]bool{"ok": true}, func(w io.Writer) {
		fmt.Fprintf(w, format+"\n", args...)
	})
}

func table(w io.Writer, header string, rows func(tw *tabwriter.Writer)) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	rows(tw)
	_ = tw.Flush()
}

func printUser(w io.Writer, u *nabdasdk.User) {
	fmt.Fprintf(w, "ID:      %s\n", u.ID)
	fmt.Fprintf(w, "Name:    %s\n", u.Name)
	fmt.Fprintf(w, "Email:   %s\n", u.Email)
	if u.Phone != "" {
		fmt.Fprintf(w, "Phone:   %s\n", u.Phone)
	}
	fmt.Fprintf(w, "2FA:     %s\n", onOff(u.TwoFactorEnabled))
}

func onOff(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}
