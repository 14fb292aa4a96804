package command

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/yndnr/hireflow-go/internal/client/apierror"
)

func TestApp(t *testing.T) {
	app := App()

	if app.Name != "hireflow-cli" {
		t.Errorf("Name = %q, want hireflow-cli", app.Name)
	}

	want := []string{"auth", "profile", "skills", "jobs", "applications", "config", "shell"}
	var got []string
	for _, cmd := range app.Commands {
		got = append(got, cmd.Name)
	}
	if !slices.Equal(got, want) {
		t.Errorf("commands = %v, want %v", got, want)
	}
}

func TestGlobalFlags(t *testing.T) {
	names := make(map[string]bool)
	for _, f := range globalFlags() {
		for _, n := range f.Names() {
			names[n] = true
		}
	}

	for _, name := range []string{"config", "output", "o", "wide", "user-url", "profile-url",
		"job-url", "timeout", "session-dir", "memory-session", "verbose", "V"} {
		if !names[name] {
			t.Errorf("missing global flag %q", name)
		}
	}
	for name := range flagKeys {
		if !names[name] {
			t.Errorf("flagKeys maps unknown flag %q", name)
		}
	}
}

func TestCommandPaths(t *testing.T) {
	paths := commandPaths(App().Commands, "")

	for _, want := range []string{"auth", "auth otp", "auth otp send", "skills add", "applications withdraw", "shell"} {
		if !slices.Contains(paths, want) {
			t.Errorf("commandPaths missing %q", want)
		}
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"plain", errors.New("boom"), ExitFailure},
		{"validation", apierror.FromValidation(errors.New("bad")), ExitValidation},
		{"auth", apierror.FromResponse(401, []byte(`{"message":"Token expired"}`)), ExitAuth},
		{"http", apierror.FromResponse(500, nil), ExitFailure},
		{"transport", apierror.FromTransport(errors.New("dial tcp: refused")), ExitTransport},
		{"wrapped auth", fmt.Errorf("whoami: %w", apierror.FromResponse(401, nil)), ExitAuth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
