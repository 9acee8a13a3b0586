package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"vrcfetch/internal"
	"vrcfetch/utils"
)

const (
	testUserID  = "usr_c1644b5b-3ca4-45b4-97c6-a2a0de70d469"
	otherUserID = "usr_5a0c5b2e-0b43-4b0a-9d43-6f1f3f0f3d2a"
	testWorldID = "wrld_ba913a96-fac4-4048-a062-9aa5db092812"
	testGroupID = "grp_71a7ff59-112c-4e78-a990-c7cc650776e5"

	accountJSON = `{"id":"` + testUserID + `","displayName":"Alice","username":"alice","emailVerified":true}`
)

type rewriteTransport struct {
	target *url.URL
}

func (rt rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = rt.target.Scheme
	req.URL.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

// useServer points every command at handler for the duration of the test
func useServer(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	target, err := url.Parse(server.URL)
	if err != nil {
		t.Fatalf("parse server URL: %v", err)
	}

	previous := newDoer
	newDoer = func(*internal.Config) utils.Doer {
		return &http.Client{Transport: rewriteTransport{target: target}}
	}
	t.Cleanup(func() { newDoer = previous })
}

func resetFlags(flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

func resetCommands(c *cobra.Command) {
	resetFlags(c.PersistentFlags())
	resetFlags(c.Flags())
	for _, sub := range c.Commands() {
		resetCommands(sub)
	}
}

// runCommand executes the CLI in an empty working directory and returns stdout
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("VRCFETCH_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	for _, key := range []string{"VRCFETCH_AUTH_FILE", "VRCFETCH_USER_AGENT", "VRCFETCH_REQUESTS_PER_MINUTE",
		"VRCFETCH_BURST", "VRCFETCH_DEBUG", "VRCFETCH_LOG_FILE", "VRCFETCH_LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	resetCommands(rootCmd)
	var out bytes.Buffer
	previous := stdout
	stdout = &out
	t.Cleanup(func() { stdout = previous })

	rootCmd.SetArgs(append([]string{"--quiet", "--rate", "0"}, args...))
	err := Execute()
	return out.String(), err
}

func writeSession(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write session: %v", err)
	}
	return path
}

func TestLoginCommand(t *testing.T) {
	useServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/1/auth/user" || r.Header.Get("Authorization") == "" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		http.SetCookie(w, &http.Cookie{Name: "auth", Value: "abc123"})
		io.WriteString(w, accountJSON)
	})
	t.Setenv("VRCFETCH_PASSWORD", "secret")

	out, err := runCommand(t, "login", "--username", "alice")
	if err != nil {
		t.Fatalf("login error = %v", err)
	}

	var session internal.SessionFile
	if err := json.Unmarshal([]byte(out), &session); err != nil {
		t.Fatalf("output is not a session: %v\n%s", err, out)
	}
	if session.Token != "abc123" || session.SecondFactorToken != nil {
		t.Errorf("session = %+v", session)
	}
}

func TestLoginCommandVerifiesSecondFactor(t *testing.T) {
	var requests []string
	var mu sync.Mutex
	useServer(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests = append(requests, r.Method+" "+r.URL.Path)
		mu.Unlock()

		switch {
		case r.URL.Path == "/api/1/auth/user" && r.Header.Get("Authorization") != "":
			http.SetCookie(w, &http.Cookie{Name: "auth", Value: "abc123"})
			io.WriteString(w, `{"requiresTwoFactorAuth":["emailOtp"]}`)
		case r.URL.Path == "/api/1/auth/twofactorauth/emailotp/verify":
			body, _ := io.ReadAll(r.Body)
			if string(body) != `{"code":"654321"}` {
				t.Errorf("verify body = %s", body)
			}
			http.SetCookie(w, &http.Cookie{Name: "twoFactorAuth", Value: "tfa_1"})
			io.WriteString(w, `{"verified":true}`)
		case r.URL.Path == "/api/1/auth/user":
			if !strings.Contains(r.Header.Get("Cookie"), "twoFactorAuth=tfa_1") {
				t.Errorf("Cookie = %q", r.Header.Get("Cookie"))
			}
			io.WriteString(w, accountJSON)
		default:
			http.NotFound(w, r)
		}
	})
	t.Setenv("VRCFETCH_PASSWORD", "secret")

	out, err := runCommand(t, "login", "-u", "alice", "--code", "654321")
	if err != nil {
		t.Fatalf("login error = %v", err)
	}

	var session internal.SessionFile
	if err := json.Unmarshal([]byte(out), &session); err != nil {
		t.Fatalf("output is not a session: %v\n%s", err, out)
	}
	if session.SecondFactorToken == nil || *session.SecondFactorToken != "tfa_1" {
		t.Errorf("session = %+v", session)
	}
	if len(requests) != 3 {
		t.Errorf("requests = %v, want login, verify and account", requests)
	}
}

func TestLoginCommandRequiresPassword(t *testing.T) {
	t.Setenv("VRCFETCH_PASSWORD", "")
	_, err := runCommand(t, "login", "-u", "alice")
	var validationErr *internal.ValidationError
	if !errors.As(err, &validationErr) || validationErr.Field != "password" {
		t.Errorf("error = %v, want password ValidationError", err)
	}
}

func TestCommandsRequireSessionFile(t *testing.T) {
	_, err := runCommand(t, "whoami")
	var validationErr *internal.ValidationError
	if !errors.As(err, &validationErr) || validationErr.Field != "auth_file" {
		t.Errorf("error = %v, want auth_file ValidationError", err)
	}
}

func TestUserCommandKeepsArgumentOrder(t *testing.T) {
	useServer(t, func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimPrefix(r.URL.Path, "/api/1/users/")
		fmt.Fprintf(w, `{"id":%q,"displayName":"name-%s"}`, userID, userID[:8])
	})
	session := writeSession(t, `{"token":"abc123"}`)

	out, err := runCommand(t, "--auth-file", session, "user", testUserID, otherUserID)
	if err != nil {
		t.Fatalf("user error = %v", err)
	}

	var users []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal([]byte(out), &users); err != nil {
		t.Fatalf("output: %v\n%s", err, out)
	}
	if len(users) != 2 || users[0].ID != testUserID || users[1].ID != otherUserID {
		t.Errorf("users = %+v", users)
	}
}

func TestUserCommandRejectsInvalidID(t *testing.T) {
	useServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	})
	session := writeSession(t, `{"token":"abc123"}`)

	_, err := runCommand(t, "--auth-file", session, "user", "usr_not-a-uuid")
	var validationErr *internal.ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("error = %v, want ValidationError", err)
	}
}

func TestFriendsCommandPagesWithAll(t *testing.T) {
	var offsets []string
	useServer(t, func(w http.ResponseWriter, r *http.Request) {
		offset := r.URL.Query().Get("offset")
		offsets = append(offsets, offset)
		if r.URL.Query().Get("n") != "2" {
			t.Errorf("n = %q, want 2", r.URL.Query().Get("n"))
		}

		count := 2
		if offset == "2" {
			count = 1
		}
		friends := make([]string, count)
		for i := range friends {
			friends[i] = fmt.Sprintf(`{"id":%q,"displayName":"friend %s-%d","friendKey":"k","isFriend":true}`, testUserID, offset, i)
		}
		io.WriteString(w, "["+strings.Join(friends, ",")+"]")
	})
	session := writeSession(t, `{"token":"abc123","second_factor_token":"tfa_1"}`)

	out, err := runCommand(t, "--auth-file", session, "friends", "--limit", "2", "--all")
	if err != nil {
		t.Fatalf("friends error = %v", err)
	}

	var friends []json.RawMessage
	if err := json.Unmarshal([]byte(out), &friends); err != nil {
		t.Fatalf("output: %v\n%s", err, out)
	}
	if len(friends) != 3 {
		t.Errorf("friends = %d, want 3", len(friends))
	}
	if strings.Join(offsets, ",") != "0,2" {
		t.Errorf("offsets = %v, want [0 2]", offsets)
	}
}

func TestAuditLogsCommandFollowsHasNext(t *testing.T) {
	var calls int
	useServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/1/groups/"+testGroupID+"/auditLogs" {
			t.Errorf("path = %s", r.URL.Path)
		}
		calls++
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		hasNext := offset == 0
		fmt.Fprintf(w, `{"results":[{"id":"gaud_%d","groupId":%q,"actorId":%q,"eventType":"group.update"}],"totalCount":2,"hasNext":%v}`,
			offset, testGroupID, testUserID, hasNext)
	})
	session := writeSession(t, `{"token":"abc123"}`)

	out, err := runCommand(t, "--auth-file", session, "audit-logs", testGroupID, "--all")
	if err != nil {
		t.Fatalf("audit-logs error = %v", err)
	}

	var entries []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("output: %v\n%s", err, out)
	}
	if calls != 2 || len(entries) != 2 || entries[1].ID != "gaud_1" {
		t.Errorf("calls = %d, entries = %+v", calls, entries)
	}
}

func TestWorldsCommandFlags(t *testing.T) {
	var rawQuery string
	useServer(t, func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		io.WriteString(w, `[]`)
	})
	session := writeSession(t, `{"token":"abc123"}`)

	_, err := runCommand(t, "--auth-file", session, "worlds", "--sort", "popularity", "--order", "ascending",
		"--featured=true", "--tag", "system_approved", "--limit", "5")
	if err != nil {
		t.Fatalf("worlds error = %v", err)
	}

	want := "n=5&offset=0&sort=popularity&order=ascending&featured=true&tag=system_approved"
	if rawQuery != want {
		t.Errorf("query = %q, want %q", rawQuery, want)
	}
}

func TestWorldsCommandRejectsOrder(t *testing.T) {
	session := writeSession(t, `{"token":"abc123"}`)
	if _, err := runCommand(t, "--auth-file", session, "worlds", "--order", "sideways"); err == nil {
		t.Error("expected an error for an unknown order")
	}
}

func TestTextOutputToFile(t *testing.T) {
	useServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok":true,"token":"abc123"}`)
	})
	session := writeSession(t, `{"token":"abc123"}`)
	outFile := filepath.Join(t.TempDir(), "out", "check.txt")

	out, err := runCommand(t, "--auth-file", session, "--format", "text", "--output", outFile, "check")
	if err != nil {
		t.Fatalf("check error = %v", err)
	}
	if out != "" {
		t.Errorf("stdout = %q, want nothing when --output is set", out)
	}

	data, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "Session") || !strings.Contains(text, "valid") || !strings.Contains(text, "yes") {
		t.Errorf("output = %q", text)
	}
	if strings.Contains(text, "\x1b[") {
		t.Errorf("file output should not contain terminal escapes: %q", text)
	}
}

func TestUnknownFormat(t *testing.T) {
	useServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok":true,"token":"abc123"}`)
	})
	session := writeSession(t, `{"token":"abc123"}`)

	_, err := runCommand(t, "--auth-file", session, "--format", "yaml", "check")
	var validationErr *internal.ValidationError
	if !errors.As(err, &validationErr) || validationErr.Field != "format" {
		t.Errorf("error = %v, want format ValidationError", err)
	}
}

func TestLoadConfigurationPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	configFile := filepath.Join(dir, "vrcfetch.toml")
	err := os.WriteFile(configFile, []byte(`
user_agent = "from-file/1.0"
requests_per_minute = 30
burst = 2
auth_file = "file-session.json"
`), 0o600)
	if err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("VRCFETCH_CONFIG", "")
	t.Setenv("VRCFETCH_USER_AGENT", "")
	t.Setenv("VRCFETCH_AUTH_FILE", "")
	t.Setenv("VRCFETCH_REQUESTS_PER_MINUTE", "")
	t.Setenv("VRCFETCH_BURST", "7")

	resetCommands(rootCmd)
	if err := rootCmd.PersistentFlags().Parse([]string{"--rate", "60/min,3", "--auth-file", "flag-session.json"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	t.Cleanup(func() { resetCommands(rootCmd) })

	if err := loadConfiguration(rootCmd); err != nil {
		t.Fatalf("loadConfiguration() error = %v", err)
	}

	if config.UserAgent != "from-file/1.0" {
		t.Errorf("UserAgent = %q, want file value", config.UserAgent)
	}
	if config.RequestsPerMinute != 60 || config.Burst != 3 {
		t.Errorf("quota = %d/%d, want the --rate flag to win", config.RequestsPerMinute, config.Burst)
	}
	if config.AuthFile != "flag-session.json" {
		t.Errorf("AuthFile = %q, want flag value", config.AuthFile)
	}
}

func TestLoadConfigurationRejectsRate(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("VRCFETCH_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	resetCommands(rootCmd)
	if err := rootCmd.PersistentFlags().Parse([]string{"--rate", "fast"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	t.Cleanup(func() { resetCommands(rootCmd) })

	err := loadConfiguration(rootCmd)
	var validationErr *internal.ValidationError
	if !errors.As(err, &validationErr) || validationErr.Field != "rate" {
		t.Errorf("error = %v, want rate ValidationError", err)
	}
}
