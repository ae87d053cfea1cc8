package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"immichart/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "chartctl:", err)
		stop()
		os.Exit(1)
	}
}
