package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"opinio/internal/router"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootHasCommands(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"serve", "views", "routes", "version"} {
		if c, _, err := cmd.Find([]string{name}); err != nil || c.Name() != name {
			t.Fatalf("command %q not found: %v", name, err)
		}
	}
	if cmd.PersistentFlags().Lookup("config") == nil || cmd.PersistentFlags().Lookup("log-level") == nil {
		t.Fatalf("persistent flags missing")
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil || strings.TrimSpace(out) != "opinio dev" {
		t.Fatalf("out=%q err=%v", out, err)
	}
}

func TestRoutesMarksDefault(t *testing.T) {
	out, err := run(t, "routes")
	if err != nil {
		t.Fatalf("routes: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != len(router.Table) {
		t.Fatalf("lines = %d, want %d", len(lines), len(router.Table))
	}
	if !strings.Contains(out, "#/entries/{id}") || !strings.Contains(out, "About (default)") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestViewsReadsConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "opinio.yaml")
	if err := os.WriteFile(path, []byte("github_client_id: abc123\noauth_redirect_url: http://localhost:3000/#/oauth/callback\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "--config", path, "views", "signInURL")
	if err != nil {
		t.Fatalf("views: %v", err)
	}
	var url string
	if err := json.Unmarshal([]byte(out), &url); err != nil {
		t.Fatalf("json: %v (%q)", err, out)
	}
	if !strings.Contains(url, "client_id=abc123") {
		t.Fatalf("sign-in url = %q", url)
	}
}

func TestViewsUnknownName(t *testing.T) {
	t.Chdir(t.TempDir())
	if _, err := run(t, "views", "nope"); err == nil {
		t.Fatalf("expected error for unknown view")
	}
}

func TestNewLoggerRejectsBadLevel(t *testing.T) {
	if _, err := newLogger(&bytes.Buffer{}, "loud"); err == nil {
		t.Fatalf("expected error")
	}
	var buf bytes.Buffer
	log, err := newLogger(&buf, "warn")
	if err != nil {
		t.Fatal(err)
	}
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), `"service":"opinio"`) {
		t.Fatalf("log output = %q", buf.String())
	}
}
