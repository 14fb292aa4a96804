package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestDefault_Verifies(t *testing.T) {
	if err := Verify(Default()); err != nil {
		t.Errorf("Verify(Default()) error = %v", err)
	}
}

func TestLoad_Precedence(t *testing.T) {
	dir := isolate(t)

	cfgPath := filepath.Join(dir, "config.yaml")
	writeFile(t, cfgPath, `
services:
  user: https://users.example.com/api/v1
  profile: https://profiles.example.com/api/v1
http:
  timeout: "2000"
log:
  level: info
`)
	envPath := filepath.Join(dir, ".env")
	writeFile(t, envPath, "HIREFLOW_SERVICES_JOB=https://jobs.example.com\n")

	t.Cleanup(func() { os.Unsetenv("HIREFLOW_SERVICES_JOB") })
	t.Setenv("HIREFLOW_HTTP_TIMEOUT", "3000")
	t.Setenv("HIREFLOW_CACHE_STALE", "1m")

	cfg, loader, err := Load(LoadOptions{
		Path:   cfgPath,
		Dotenv: []string{envPath},
		Flags:  map[string]any{"log.level": "debug", "output.format": "json"},
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"file", cfg.Services.User, "https://users.example.com/api/v1"},
		{"dotenv", cfg.Services.Job, "https://jobs.example.com"},
		{"env over file", cfg.HTTP.Timeout, "3000"},
		{"env duration", cfg.Cache.Stale, time.Minute},
		{"flag over file", cfg.Log.Level, "debug"},
		{"flag", cfg.Output.Format, "json"},
		{"default kept", cfg.Log.Format, DefaultLogFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	if !loader.IsLoaded() || loader.FilePath() != cfgPath {
		t.Errorf("loader state: loaded=%v path=%q", loader.IsLoaded(), loader.FilePath())
	}
}

func TestLoad_MissingDefaultFileIsFine(t *testing.T) {
	isolate(t)

	cfg, _, err := Load(LoadOptions{Dotenv: []string{}})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Services.User != DefaultUserURL {
		t.Errorf("Services.User = %q", cfg.Services.User)
	}
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	dir := isolate(t)

	_, _, err := Load(LoadOptions{Path: filepath.Join(dir, "missing.yaml"), Dotenv: []string{}})
	if err == nil {
		t.Error("Load() with a missing explicit file should fail")
	}
}

func TestVerify_ReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Services.User = "not a url"
	cfg.Services.Job = ""
	cfg.Log.Level = "loud"
	cfg.HTTP.Burst = -1
	cfg.Session.Dir = ""

	err := Verify(cfg)
	if err == nil {
		t.Fatal("Verify() should fail")
	}

	for _, want := range []string{"services.user", "services.job", "log.level", "http.burst", "session.dir"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestVerify_MemorySessionNeedsNoDir(t *testing.T) {
	cfg := Default()
	cfg.Session.Dir = ""
	cfg.Session.Memory = true

	if err := Verify(cfg); err != nil {
		t.Errorf("Verify() error = %v", err)
	}
}

func TestVerify_NonNumericTimeoutAllowed(t *testing.T) {
	cfg := Default()
	cfg.HTTP.Timeout = "soon"

	if err := Verify(cfg); err != nil {
		t.Errorf("Verify() error = %v", err)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		secret string
		want   string
	}{
		{"", ""},
		{"abc", "****"},
		{"supersecret", "su*******et"},
	}

	for _, tt := range tests {
		t.Run(tt.secret, func(t *testing.T) {
			cfg := Default()
			cfg.Session.Secret = tt.secret

			got := Sanitize(cfg)
			if got.Session.Secret != tt.want {
				t.Errorf("Sanitize() secret = %q, want %q", got.Session.Secret, tt.want)
			}
			if cfg.Session.Secret != tt.secret {
				t.Error("Sanitize() modified the original")
			}
		})
	}
}
