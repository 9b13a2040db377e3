package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nabdaotp/dashboard/internal/cli"
)

const (
	testEmail    = "layla@example.com"
	testPassword = "secret"
	testToken    = "tok-1"
)

// account is a fake Nabda API holding a single account.
type account struct {
	*httptest.Server

	mu        sync.Mutex
	token     string
	user      map[string]any
	revoked   bool
	logoutErr bool
	lastQuery string
	lastBody  map[string]any
	bodies    map[string]map[string]any
	calls     map[string]int
}

func newAccount(t *testing.T) *account {
	t.Helper()

	a := &account{
		token: testToken,
		user: map[string]any{
			"id":               "u1",
			"name":             "Layla",
			"email":            testEmail,
			"phone":            "+966500000000",
			"twoFactorEnabled": false,
		},
		bodies: make(map[string]map[string]any),
		calls:  make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/login", a.login)
	mux.HandleFunc("POST /api/v1/auth/verify-otp", a.verify)
	mux.HandleFunc("POST /api/v1/auth/register", func(w http.ResponseWriter, r *http.Request) {
		send(w, http.StatusCreated, envelope(map[string]any{"message": "Verification code sent"}))
	})
	mux.HandleFunc("POST /api/v1/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		if a.failLogout() {
			send(w, http.StatusInternalServerError, map[string]any{"message": "boom"})
			return
		}
		send(w, http.StatusOK, map[string]any{"success": true})
	})
	mux.HandleFunc("GET /api/v1/users/me", a.authed(func(w http.ResponseWriter, r *http.Request) {
		send(w, http.StatusOK, envelope(a.snapshot()))
	}))
	mux.HandleFunc("PATCH /api/v1/users/me", a.authed(func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		for k, v := range a.lastBody {
			a.user[k] = v
		}
		a.mu.Unlock()
		send(w, http.StatusOK, envelope(a.snapshot()))
	}))
	mux.HandleFunc("POST /api/v1/auth/confirm-2fa", a.authed(func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		a.user["twoFactorEnabled"] = true
		a.mu.Unlock()
		send(w, http.StatusOK, map[string]any{"success": true})
	}))
	mux.HandleFunc("POST /api/v1/auth/select-instance", a.authed(func(w http.ResponseWriter, r *http.Request) {
		send(w, http.StatusOK, map[string]any{"success": true})
	}))
	mux.HandleFunc("GET /api/v1/messages", a.authed(func(w http.ResponseWriter, r *http.Request) {
		send(w, http.StatusOK, map[string]any{
			"data": []map[string]any{
				{"id": "m1", "phone": "+966511111111", "message": "Your code is 4821", "status": "sent", "createdAt": "2025-06-01T10:00:00Z"},
			},
			"total": 41,
			"page":  2,
			"limit": 20,
		})
	}))
	mux.HandleFunc("GET /api/v1/plans", a.authed(func(w http.ResponseWriter, r *http.Request) {
		send(w, http.StatusOK, envelope([]map[string]any{
			{"id": "basic", "name": "Basic", "price": 9.5, "features": []string{"1 instance"}},
		}))
	}))
	mux.HandleFunc("PATCH /api/v1/subscriptions/auto-renew", a.authed(func(w http.ResponseWriter, r *http.Request) {
		send(w, http.StatusOK, map[string]any{"success": true})
	}))
	mux.HandleFunc("GET /api/v1/whatsapp/status", a.authed(func(w http.ResponseWriter, r *http.Request) {
		send(w, http.StatusOK, envelope(map[string]any{"connected": true, "phone": "+966522222222"}))
	}))

	a.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)

		a.mu.Lock()
		a.calls[r.Method+" "+r.URL.Path]++
		a.lastQuery = r.URL.RawQuery
		a.lastBody = body
		a.bodies[r.Method+" "+r.URL.Path] = body
		a.mu.Unlock()

		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(a.Close)
	return a
}

func (a *account) login(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	email, _ := a.lastBody["email"].(string)
	password, _ := a.lastBody["password"].(string)
	a.revoked = false
	a.mu.Unlock()

	switch {
	case email == "pending@example.com":
		send(w, http.StatusForbidden, map[string]any{"message": "Email not verified"})
	case email != testEmail || password != testPassword:
		send(w, http.StatusUnauthorized, map[string]any{"message": "Invalid credentials"})
	default:
		send(w, http.StatusOK, envelope(map[string]any{"accessToken": a.issued(), "user": a.snapshot()}))
	}
}

func (a *account) verify(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	code, _ := a.lastBody["code"].(string)
	a.mu.Unlock()

	if code != "123456" {
		send(w, http.StatusBadRequest, map[string]any{"message": "Invalid code"})
		return
	}
	send(w, http.StatusOK, envelope(map[string]any{"access_token": a.issued(), "user": a.snapshot()}))
}

func (a *account) authed(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		ok := !a.revoked && r.Header.Get("Authorization") == "Bearer "+a.token
		a.mu.Unlock()
		if !ok {
			send(w, http.StatusUnauthorized, map[string]any{"message": "Unauthorized"})
			return
		}
		h(w, r)
	}
}

// issue makes the account hand out token from now on.
func (a *account) issue(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = token
}

func (a *account) issued() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.token
}

func (a *account) revoke() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.revoked = true
}

func (a *account) failLogout() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.logoutErr
}

func (a *account) snapshot() map[string]any {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[string]any, len(a.user))
	for k, v := range a.user {
		out[k] = v
	}
	return out
}

func (a *account) count(method, path string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls[method+" "+path]
}

// body returns the JSON body last sent to method path.
func (a *account) body(method, path string) map[string]any {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.bodies[method+" "+path]
}

func (a *account) query() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastQuery
}

func envelope(data any) map[string]any {
	return map[string]any{"success": true, "data": data}
}

func send(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// harness runs nabdactl against an account and a state file that outlive a
// single invocation, like successive page loads.
type harness struct {
	t       *testing.T
	account *account
	cfg     cli.Config
}

type result struct {
	code   int
	stdout string
	stderr string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	a := newAccount(t)
	return &harness{
		t:       t,
		account: a,
		cfg: cli.Config{
			APIURL:       a.URL,
			DashboardURL: "http://dashboard.test",
			StateFile:    filepath.Join(t.TempDir(), "nabda", "state.db"),
			LogLevel:     "error",
			LogFormat:    "text",
			Timeout:      5 * time.Second,
		},
	}
}

func (h *harness) run(args ...string) result {
	return h.runWithInput("", args...)
}

func (h *harness) runWithInput(stdin string, args ...string) result {
	h.t.Helper()

	var stdout, stderr bytes.Buffer
	code := cli.Execute(context.Background(), h.cfg, args, cli.IO{
		In:  strings.NewReader(stdin),
		Out: &stdout,
		Err: &stderr,
	})
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func (h *harness) login() {
	h.t.Helper()
	res := h.run("login", "--email", testEmail, "--password", testPassword)
	if res.code != 0 {
		h.t.Fatalf("login failed: %s", res.stderr)
	}
}

func (h *harness) status() map[string]any {
	h.t.Helper()
	res := h.run("status", "--json")
	if res.code != 0 {
		h.t.Fatalf("status failed: %s", res.stderr)
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(res.stdout), &out); err != nil {
		h.t.Fatalf("status output: %v", err)
	}
	return out
}
