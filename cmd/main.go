package main

import (
	"context"
	"os"

	"github.com/desertthunder/hymnx/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	if err := newApp(runner).Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:     "hymnx",
		Usage:    "Inspect the church songs database and export English songs",
		Version:  "0.2.0",
		Flags:    rootFlags(),
		Before:   r.Before,
		Commands: r.register(),
	}
}
