package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/idilsaglam/jotlist/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Hand the args to the CLI runner.
	code := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	cancel()
	os.Exit(code)
}
