// Package main provides the entry point for hireflow-cli.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yndnr/hireflow-go/internal/cli/command"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := command.App().RunContext(ctx, os.Args)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", command.ErrorMessage(err))
		os.Exit(command.ExitCode(err))
	}
}
