// Package cli implements nabdactl, a command line client for the Nabda OTP
// dashboard. Each invocation behaves like one page load: the session is
// hydrated from the state file, the command runs, and the session is torn
// down. The state file also holds the dashboard cookie jar, so `browse` sees
// exactly what the edge gate would.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/nabdaotp/dashboard/pkg/cryptox"
	"github.com/nabdaotp/dashboard/pkg/jwtx"
	"github.com/nabdaotp/dashboard/pkg/nabdasdk"
	"github.com/nabdaotp/dashboard/pkg/routes"
	"github.com/nabdaotp/dashboard/pkg/slogx"
	"github.com/nabdaotp/dashboard/pkg/tokenstore"
	"github.com/nabdaotp/dashboard/pkg/tokenstore/sqlite"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Version is overridden at build time via ldflags.
var Version = "v0.1.0"

// pageAnnotation maps a command onto the dashboard page it stands in for, so
// the same access lists decide whether it may run.
const pageAnnotation = "nabda.page"

var (
	errSignedOut = errors.New("not signed in; run 'nabdactl login' first")
	errSignedIn  = errors.New("already signed in; run 'nabdactl logout' first")
)

// IO is the set of streams a command reads and writes.
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

type CLI struct {
	cfg     Config
	io      IO
	jsonOut bool
	now     func() time.Time

	logger *slog.Logger
	stdin  *bufio.Reader

	dashboard *url.URL
	state     *sqlite.Store
	tokens    *tokenstore.Store
	client    *nabdasdk.Client
	session   *nabdasdk.Session
}

// Execute runs nabdactl with args and returns the process exit code.
func Execute(ctx context.Context, cfg Config, args []string, stdio IO) int {
	c := &CLI{
		cfg:    cfg,
		io:     stdio,
		now:    time.Now,
		logger: slogx.Discard(),
	}
	defer c.close()

	root := c.rootCmd()
	root.SetArgs(args)
	root.SetIn(stdio.In)
	root.SetOut(stdio.Out)
	root.SetErr(stdio.Err)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stdio.Err, "Error: %s\n", describe(err))
		return 1
	}
	return 0
}

func (c *CLI) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "nabdactl",
		Short:         "Command line client for the Nabda OTP dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.logger = slogx.New(slogx.Config{
				Service: "nabdactl",
				Version: Version,
				Env:     "cli",
				Level:   c.cfg.LogLevel,
				Format:  c.cfg.LogFormat,
				Output:  c.io.Err,
			})
			return c.gate(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfg.APIURL, "api-url", c.cfg.APIURL, "backend base URL")
	flags.StringVar(&c.cfg.DashboardURL, "dashboard-url", c.cfg.DashboardURL, "dashboard origin the credential cookie belongs to")
	flags.StringVar(&c.cfg.StateFile, "state", c.cfg.StateFile, "path to the state file")
	flags.StringVar(&c.cfg.LogLevel, "log-level", c.cfg.LogLevel, "log level (debug, info, warn, error)")
	flags.DurationVar(&c.cfg.Timeout, "timeout", c.cfg.Timeout, "per request timeout")
	flags.BoolVar(&c.jsonOut, "json", false, "print results as JSON")

	root.AddCommand(
		c.loginCmd(),
		c.registerCmd(),
		c.verifyOTPCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.statusCmd(),
		c.selectInstanceCmd(),
		c.forgotPasswordCmd(),
		c.resetPasswordCmd(),
		c.messagesCmd(),
		c.profileCmd(),
		c.passwordCmd(),
		c.twoFactorCmd(),
		c.billingCmd(),
		c.whatsappCmd(),
		c.browseCmd(),
		c.versionCmd(),
	)
	return root
}

// onPage marks cmd as standing in for a dashboard page.
func onPage(cmd *cobra.Command, page string) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[pageAnnotation] = page
	return cmd
}

// gate applies the dashboard's access lists to the page cmd (or its nearest
// parent) stands in for. Like the edge gate it only looks at the cookie.
func (c *CLI) gate(cmd *cobra.Command) error {
	var page string
	for p := cmd; p != nil && page == ""; p = p.Parent() {
		page = p.Annotations[pageAnnotation]
	}
	if page == "" {
		return nil
	}

	if err := c.open(cmd.Context()); err != nil {
		return err
	}

	d := routes.Decide(page, c.hasCredentialCookie())
	c.logger.Debug("command gate", "page", page, "action", d.Action.String())

	switch d.Action {
	case routes.RedirectLogin:
		return errSignedOut
	case routes.RedirectDashboard:
		return errSignedIn
	default:
		return nil
	}
}

func (c *CLI) hasCredentialCookie() bool {
	for _, ck := range c.state.Jar().Cookies(c.dashboard) {
		if ck.Name == tokenstore.CookieName && ck.Value != "" {
			return !c.cfg.CheckExpiry || !jwtx.Expired(ck.Value, c.now())
		}
	}
	return false
}

// open wires the state file, token store, gateway and session. It is
// idempotent.
func (c *CLI) open(ctx context.Context) error {
	if c.session != nil {
		return nil
	}

	dashboard, err := url.Parse(c.cfg.DashboardURL)
	if err != nil || dashboard.Scheme == "" || dashboard.Host == "" {
		return fmt.Errorf("invalid dashboard url %q", c.cfg.DashboardURL)
	}

	sealer, err := cryptox.LoadSealer(c.cfg.MasterKeyFile, c.cfg.MasterKey)
	if err != nil {
		return err
	}

	state, err := sqlite.Open(c.cfg.StateFile,
		sqlite.WithSealer(sealer),
		sqlite.WithLogger(c.logger),
		sqlite.WithClock(c.now),
	)
	if err != nil {
		return err
	}

	if n, err := state.Jar().Purge(ctx); err != nil {
		c.logger.Warn("failed to purge expired cookies", "err", err)
	} else if n > 0 {
		c.logger.Debug("purged expired cookies", "count", n)
	}

	c.dashboard = dashboard
	c.state = state
	c.tokens = tokenstore.New(state,
		tokenstore.JarSink{Jar: state.Jar(), URL: dashboard},
		tokenstore.WithLogger(c.logger),
	)
	c.client = nabdasdk.NewClient(c.cfg.APIURL, c.tokens,
		nabdasdk.WithLogger(c.logger),
		nabdasdk.WithTimeout(c.cfg.Timeout),
	)
	c.session = nabdasdk.NewSession(c.client)
	return nil
}

// hydrated returns the session after restoring it from the state file.
func (c *CLI) hydrated(ctx context.Context) (*nabdasdk.Session, error) {
	if err := c.open(ctx); err != nil {
		return nil, err
	}
	c.session.Hydrate(ctx)
	return c.session, nil
}

// signedIn is the page level check behind the gate: the cookie may be
// present while the credential is no longer accepted.
func (c *CLI) signedIn(ctx context.Context) (*nabdasdk.Session, nabdasdk.Snapshot, error) {
	sess, err := c.hydrated(ctx)
	if err != nil {
		return nil, nabdasdk.Snapshot{}, err
	}
	snap := sess.Snapshot()
	if !snap.IsAuthenticated() {
		return nil, snap, errSignedOut
	}
	return sess, snap, nil
}

func (c *CLI) close() {
	if c.session != nil {
		c.session.Close()
	}
	if c.state != nil {
		if err := c.state.Close(); err != nil {
			c.logger.Warn("failed to close state file", "err", err)
		}
	}
}

// prompt reads one line from stdin after printing label to stderr.
func (c *CLI) prompt(label string) (string, error) {
	if c.stdin == nil {
		c.stdin = bufio.NewReader(c.io.In)
	}
	fmt.Fprintf(c.io.Err, "%s: ", label)

	line, err := c.stdin.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// promptSecret reads without echo when stdin is a terminal and falls back to
// prompt for piped input.
func (c *CLI) promptSecret(label string) (string, error) {
	f, ok := c.io.In.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return c.prompt(label)
	}

	fmt.Fprintf(c.io.Err, "%s: ", label)
	b, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(c.io.Err)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	return string(b), nil
}

// valueOrPrompt returns v, or prompts for it when empty.
func (c *CLI) valueOrPrompt(v, label string) (string, error) {
	return c.required(v, label, c.prompt)
}

// secretOrPrompt is valueOrPrompt for passwords.
func (c *CLI) secretOrPrompt(v, label string) (string, error) {
	return c.required(v, label, c.promptSecret)
}

func (c *CLI) required(v, label string, ask func(string) (string, error)) (string, error) {
	if v != "" {
		return v, nil
	}
	v, err := ask(label)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", fmt.Errorf("%s is required", strings.ToLower(label))
	}
	return v, nil
}

func describe(err error) string {
	if errors.Is(err, nabdasdk.ErrUnauthorized) {
		return "session expired; run 'nabdactl login' again"
	}
	return err.Error()
}
