package command

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/hireflow-go/internal/cli/repl"
	"github.com/yndnr/hireflow-go/internal/config"
	"github.com/yndnr/hireflow-go/internal/infra/buildinfo"
	"github.com/yndnr/hireflow-go/internal/infra/confloader"
	"github.com/yndnr/hireflow-go/internal/infra/httpserver"
	"github.com/yndnr/hireflow-go/internal/infra/shutdown"
	"github.com/yndnr/hireflow-go/internal/telemetry/logger"
)

const shutdownTimeout = 5 * time.Second

// ShellCommand returns the interactive shell command.
func ShellCommand() *cli.Command {
	return &cli.Command{
		Name:  "shell",
		Usage: "Start an interactive shell",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "Serve Prometheus metrics on this address, e.g. 127.0.0.1:9464",
			},
			&cli.StringSliceFlag{
				Name:  "metrics-allow",
				Usage: "IPs or CIDRs allowed to scrape metrics (default: everyone)",
			},
			&cli.StringFlag{
				Name:  "history-file",
				Usage: "Command history file",
				Value: filepath.Join(config.HomeDir(), "history"),
			},
		},
		Action: shellRun,
	}
}

func shellRun(c *cli.Context) error {
	rt, err := getApp(c)
	if err != nil {
		return err
	}
	if rt.inShell {
		return errors.New("already in the shell")
	}
	rt.inShell = true
	defer func() { rt.inShell = false }()

	sd := shutdown.NewHandler(shutdownTimeout).WithLogger(rt.log.Slog())
	sd.OnShutdown("session-store", func(context.Context) error {
		return rt.close()
	})

	if c.String("metrics-addr") != "" {
		srv, err := serveMetrics(c, rt)
		if err != nil {
			return err
		}
		sd.OnShutdown("metrics-server", srv.Shutdown)
		fmt.Fprintf(rt.errOut, "Serving metrics on http://%s/metrics\n", srv.Addr())
	}

	if rt.path != "" {
		w, err := watchConfig(rt)
		if err != nil {
			rt.log.Warn("config hot reload disabled", "error", err)
		} else {
			sd.OnShutdown("config-watcher", func(context.Context) error { return w.Stop() })
		}
	}

	history := repl.NewHistory(c.String("history-file"))
	if err := history.Load(); err != nil {
		rt.log.Warn("failed to load history", "error", err)
	}
	sd.OnShutdown("history", func(context.Context) error { return history.Save() })

	app := c.App
	shell := repl.New(
		func(ctx context.Context, args []string) error {
			if len(args) > 0 && args[0] == "shell" {
				return errors.New("already in the shell")
			}
			if err := app.RunContext(ctx, append([]string{app.Name}, args...)); err != nil {
				return errors.New(ErrorMessage(err))
			}
			return nil
		},
		repl.WithIO(app.Reader, rt.out),
		repl.WithHistory(history),
		repl.WithCompleter(repl.NewCompleter(commandPaths(app.Commands, ""))),
		repl.WithPrompt(func() string {
			if rt.signedOut.Load() {
				return "hireflow (signed out)> "
			}
			return "hireflow> "
		}),
	)

	fmt.Fprintf(rt.out, "%s shell. Type 'help' for commands, 'exit' to quit.\n", app.Name)
	// Shutdown hooks run in reverse order, so the session store closes last.
	runErr := shell.Run(c.Context)
	return errors.Join(runErr, sd.Shutdown())
}

// serveMetrics starts the observability endpoint.
func serveMetrics(c *cli.Context, rt *runtime) (*httpserver.Server, error) {
	logger := rt.log.Slog().With("component", "httpserver")
	handler := httpserver.NewRouter(httpserver.RouterConfig{
		Metrics:       rt.client.Metrics.Handler(),
		Version:       buildinfo.Version,
		Authenticated: rt.client.Store.IsAuthenticated,
		AllowList:     c.StringSlice("metrics-allow"),
		Logger:        logger,
	})

	srv, err := httpserver.New(c.String("metrics-addr"), handler, logger)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}
	srv.Start()
	return srv, nil
}

// watchConfig reloads the log level when the config file changes.
func watchConfig(rt *runtime) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(rt.log.Slog()))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(rt.path); err != nil {
		w.Stop()
		return nil, err
	}

	w.OnChange(func(string) {
		cfg, _, err := config.Load(rt.opts)
		if err != nil {
			rt.log.Warn("config reload failed", "error", err)
			return
		}
		if cfg.Log.Level != logger.GetLevel() {
			logger.SetLevel(cfg.Log.Level)
			rt.log.Info("log level changed", "level", cfg.Log.Level)
		}
	})
	w.StartAsync()
	return w, nil
}

// commandPaths lists every command path for completion, e.g. "auth otp send".
func commandPaths(cmds []*cli.Command, prefix string) []string {
	var paths []string
	for _, cmd := range cmds {
		if cmd.Hidden {
			continue
		}
		path := strings.TrimSpace(prefix + " " + cmd.Name)
		paths = append(paths, path)
		paths = append(paths, commandPaths(cmd.Subcommands, path)...)
	}
	return paths
}
