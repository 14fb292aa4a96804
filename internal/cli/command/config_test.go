package command

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigShow_MasksSecret(t *testing.T) {
	server := newMockServer(t)
	runner := newRunner(t, server)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "session:\n  secret: supersecretvalue\nlog:\n  level: info\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	res := runner.run("--config", path, "config", "show")
	if res.err != nil {
		t.Fatalf("show error = %v", res.err)
	}
	if strings.Contains(res.stdout, "supersecretvalue") {
		t.Errorf("secret leaked: %q", res.stdout)
	}
	if !strings.Contains(res.stdout, "su************ue") {
		t.Errorf("stdout = %q, want masked secret", res.stdout)
	}
	if !strings.Contains(res.stdout, server.baseURL()) {
		t.Errorf("stdout = %q, want service URL from flags", res.stdout)
	}

	res = runner.run("--config", path, "config", "path")
	if strings.TrimSpace(res.stdout) != path {
		t.Errorf("path = %q, want %q", res.stdout, path)
	}
}

func TestConfigPath_Default(t *testing.T) {
	runner := newRunner(t, newMockServer(t))

	res := runner.run("config", "path")
	if res.err != nil {
		t.Fatalf("path error = %v", res.err)
	}
	if !strings.Contains(res.stdout, "not found") {
		t.Errorf("stdout = %q", res.stdout)
	}
}

func TestConfigValidate_ReportsProblems(t *testing.T) {
	runner := newRunner(t, newMockServer(t))

	res := runner.run("--user-url", "not a url", "config", "validate")
	if res.err == nil {
		t.Fatal("validate succeeded, want error")
	}
	if !strings.Contains(res.err.Error(), "services.user") {
		t.Errorf("err = %v, want services.user problem", res.err)
	}

	res = runner.run("config", "validate")
	if res.err != nil || !strings.Contains(res.stderr, "Configuration is valid") {
		t.Errorf("err = %v, stderr = %q", res.err, res.stderr)
	}
}

func TestOutputFlag_Invalid(t *testing.T) {
	runner := newRunner(t, newMockServer(t))

	res := runner.run("-o", "xml", "config", "show")
	if res.err == nil {
		t.Fatal("want error for unknown output format")
	}
}
