package command

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/hireflow-go/internal/cli/output"
	"github.com/yndnr/hireflow-go/internal/client/apierror"
	"github.com/yndnr/hireflow-go/internal/client/app"
	"github.com/yndnr/hireflow-go/internal/client/callstate"
	"github.com/yndnr/hireflow-go/internal/client/session"
	"github.com/yndnr/hireflow-go/internal/config"
	"github.com/yndnr/hireflow-go/internal/infra/buildinfo"
	"github.com/yndnr/hireflow-go/internal/infra/confloader"
	"github.com/yndnr/hireflow-go/internal/telemetry/logger"
)

const runtimeKey = "runtime"

// Exit codes returned by ExitCode.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitValidation = 2
	ExitAuth       = 3
	ExitTransport  = 4
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    buildinfo.Product,
		Usage:   "HireFlow job seeker command-line client",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			AuthCommand(),
			ProfileCommand(),
			SkillsCommand(),
			JobsCommand(),
			ApplicationsCommand(),
			ConfigCommand(),
			ShellCommand(),
		},
		Metadata: map[string]any{},
		After: func(c *cli.Context) error {
			rt, ok := c.App.Metadata[runtimeKey].(*runtime)
			if !ok || rt.inShell {
				return nil
			}
			delete(c.App.Metadata, runtimeKey)
			return rt.close()
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Config file (default ~/.hireflow/config.yaml)",
			EnvVars: []string{"HIREFLOW_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.StringFlag{
			Name:  "user-url",
			Usage: "User service base URL",
		},
		&cli.StringFlag{
			Name:  "profile-url",
			Usage: "Profile service base URL",
		},
		&cli.StringFlag{
			Name:  "job-url",
			Usage: "Job service base URL",
		},
		&cli.StringFlag{
			Name:  "timeout",
			Usage: "Request timeout in milliseconds",
		},
		&cli.StringFlag{
			Name:  "session-dir",
			Usage: "Directory of the persistent session store",
		},
		&cli.BoolFlag{
			Name:  "memory-session",
			Usage: "Keep the session in memory only",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable debug logging",
		},
	}
}

// flagKeys maps global flags onto configuration keys.
var flagKeys = map[string]string{
	"user-url":       "services.user",
	"profile-url":    "services.profile",
	"job-url":        "services.job",
	"timeout":        "http.timeout",
	"session-dir":    "session.dir",
	"memory-session": "session.memory",
}

// configFlags returns the configuration overrides given on the command line.
func configFlags(c *cli.Context) map[string]any {
	flags := make(map[string]any)
	for name, key := range flagKeys {
		if !c.IsSet(name) {
			continue
		}
		if name == "memory-session" {
			flags[key] = c.Bool(name)
		} else {
			flags[key] = c.String(name)
		}
	}
	if c.Bool("verbose") {
		flags["log.level"] = "debug"
	}
	return flags
}

// runtime is the state shared by the commands of one process.
type runtime struct {
	cfg    *config.Config
	opts   config.LoadOptions
	loader *confloader.Loader
	path   string

	client *app.App
	log    logger.Logger

	out    io.Writer
	errOut io.Writer
	notify *output.Notifier

	format output.Format
	wide   bool

	signedOut atomic.Bool
	inShell   bool
}

// getRuntime returns the shared runtime, loading the configuration on first
// use.
func getRuntime(c *cli.Context) (*runtime, error) {
	if rt, ok := c.App.Metadata[runtimeKey].(*runtime); ok {
		return rt, nil
	}

	opts := config.LoadOptions{
		Path:  c.String("config"),
		Flags: configFlags(c),
	}
	cfg, loader, err := config.Load(opts)
	if err != nil {
		return nil, err
	}

	format := output.Format(cfg.Output.Format)
	if c.IsSet("output") {
		if format, err = output.ParseFormat(c.String("output")); err != nil {
			return nil, err
		}
	}

	errOut := c.App.ErrWriter
	rt := &runtime{
		cfg:    cfg,
		opts:   opts,
		loader: loader,
		path:   loader.FilePath(),
		out:    c.App.Writer,
		errOut: errOut,
		notify: output.NewNotifier(errOut, output.IsTerminal(errOut)),
		format: format,
		wide:   c.Bool("wide"),
	}
	c.App.Metadata[runtimeKey] = rt
	return rt, nil
}

// getApp returns the runtime with the client layer built.
func getApp(c *cli.Context) (*runtime, error) {
	rt, err := getRuntime(c)
	if err != nil {
		return nil, err
	}
	if rt.client != nil {
		return rt, nil
	}

	rt.log, err = logger.New(logger.Config{
		Level:  rt.cfg.Log.Level,
		Format: rt.cfg.Log.Format,
		Output: rt.errOut,
	})
	if err != nil {
		return nil, err
	}

	rt.client, err = app.New(app.Options{
		Config:    rt.cfg,
		Logger:    rt.log,
		Navigator: session.NavigatorFunc(rt.redirectToEntry),
		Notifier:  rt.notify,
	})
	if err != nil {
		return nil, err
	}
	rt.signedOut.Store(!rt.client.Store.IsAuthenticated())
	return rt, nil
}

// redirectToEntry is the CLI's entry point: a sign-in hint.
func (rt *runtime) redirectToEntry() {
	rt.signedOut.Store(true)
	fmt.Fprintf(rt.errOut, "Run '%s auth login' or '%s auth otp send' to sign in.\n",
		buildinfo.Product, buildinfo.Product)
}

func (rt *runtime) close() error {
	if rt.client == nil {
		return nil
	}
	err := rt.client.Close()
	rt.client = nil
	return err
}

// render writes data in the selected format. In table mode a non-nil table
// replaces the reflective rendering of data.
func (rt *runtime) render(data any, table *output.Table) error {
	if rt.format == output.FormatTable && table != nil {
		return table.Render(rt.out)
	}
	return output.NewFormatter(rt.format, rt.wide).Format(rt.out, data)
}

// follow shows a spinner while a hook call is loading, when stderr is a
// terminal.
func (rt *runtime) follow(subscribe func(func(callstate.CallState)) func(), message string) (stop func()) {
	if !output.IsTerminal(rt.errOut) {
		return func() {}
	}
	sp := output.NewSpinner(rt.errOut, message)
	unsubscribe := subscribe(sp.Follow)
	return func() {
		unsubscribe()
		sp.Stop()
	}
}

// ExitCode maps an error returned by the application to a process exit
// status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case apierror.IsValidation(err):
		return ExitValidation
	case apierror.IsAuth(err):
		return ExitAuth
	case apierror.IsTransport(err):
		return ExitTransport
	default:
		return ExitFailure
	}
}

// ErrorMessage returns the message to print for err.
func ErrorMessage(err error) string {
	return apierror.Message(err)
}
