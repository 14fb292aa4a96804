// Package command provides the command definitions of hireflow-cli.
//
// It uses urfave/cli/v2 for command parsing and supports both
// single-command mode and the interactive shell. The client layer is built
// lazily on first use and shared by every command the shell runs.
package command
