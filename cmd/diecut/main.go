package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/maax3v3/diecut/internal/cli"
	"github.com/maax3v3/diecut/internal/pipeline"
)

func main() {
	cfg, err := cli.Parse(os.Args[1:], os.Stderr)
	if errors.Is(err, cli.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := pipeline.Run(ctx, cfg, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
