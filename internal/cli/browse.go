package cli

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/nabdaotp/dashboard/pkg/idx"
	"github.com/spf13/cobra"
)

type browseResult struct {
	URL       string `json:"url"`
	Status    int    `json:"status"`
	Location  string `json:"location,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func (c *CLI) browseCmd() *cobra.Command {
	var follow bool
	var lang string

	cmd := &cobra.Command{
		Use:   "browse [path]",
		Short: "Request a dashboard page with the stored cookies, as a browser would",
		Long: "Sends GET <dashboard-url><path> with the cookie jar from the state file and\n" +
			"reports the response status. Redirects are shown, not followed, unless --follow.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.open(cmd.Context()); err != nil {
				return err
			}

			path := "/"
			if len(args) == 1 {
				path = "/" + strings.TrimPrefix(args[0], "/")
			}
			ref, err := url.Parse(path)
			if err != nil {
				return fmt.Errorf("invalid path %q: %w", path, err)
			}
			target := c.dashboard.ResolveReference(ref).String()

			hc := &http.Client{
				Jar:     c.state.Jar(),
				Timeout: c.cfg.Timeout,
			}
			if !follow {
				hc.CheckRedirect = func(*http.Request, []*http.Request) error {
					return http.ErrUseLastResponse
				}
			}

			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, target, nil)
			if err != nil {
				return err
			}
			if lang != "" {
				req.Header.Set("Accept-Language", lang)
			}

			resp, err := hc.Do(req)
			if err != nil {
				return fmt.Errorf("failed to reach dashboard: %w", err)
			}
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()

			res := browseResult{
				URL:       resp.Request.URL.String(),
				Status:    resp.StatusCode,
				Location:  resp.Header.Get("Location"),
				RequestID: resp.Header.Get(idx.HeaderRequestID),
			}
			if err := c.emit(res, func(w io.Writer) {
				fmt.Fprintf(w, "%d %s %s\n", res.Status, http.StatusText(res.Status), res.URL)
				if res.Location != "" {
					fmt.Fprintf(w, "Location: %s\n", res.Location)
				}
			}); err != nil {
				return err
			}

			if res.Status >= 500 {
				return errors.New("dashboard returned a server error")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&follow, "follow", false, "follow redirects")
	cmd.Flags().StringVar(&lang, "lang", "", "Accept-Language header to send")
	return cmd
}
