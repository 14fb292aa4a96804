package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/hireflow-go/internal/cli/output"
	"github.com/yndnr/hireflow-go/internal/client/notify"
	"github.com/yndnr/hireflow-go/internal/config"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect the effective configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the merged configuration with secrets masked",
				Action: configShow,
			},
			{
				Name:   "path",
				Usage:  "Show which config file is used",
				Action: configPath,
			},
			{
				Name:   "validate",
				Usage:  "Load and validate the configuration",
				Action: configValidate,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	rt, err := getRuntime(c)
	if err != nil {
		return err
	}

	format := rt.format
	if format == output.FormatTable {
		format = output.FormatYAML
	}
	return output.NewFormatter(format, false).Format(rt.out, config.Sanitize(rt.cfg))
}

func configPath(c *cli.Context) error {
	rt, err := getRuntime(c)
	if err != nil {
		return err
	}
	if rt.path == "" {
		fmt.Fprintf(rt.out, "%s (not found, using defaults)\n", config.DefaultPath())
		return nil
	}
	fmt.Fprintln(rt.out, rt.path)
	return nil
}

func configValidate(c *cli.Context) error {
	rt, err := getRuntime(c)
	if err != nil {
		return err
	}
	rt.notify.Notify(notify.Success, "Configuration is valid")
	return nil
}
