// Command xrf unpacks, packs, verifies and inspects X-Ray engine game
// data: spawn files, particles, archives, LTX configs and models.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/meigma/xrf/cmd/xrf/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:])
	stop()
	if err != nil {
		// Commands that already printed their findings return an error
		// carrying the exit code.
		var coder interface{ ExitCode() int }
		if errors.As(err, &coder) {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	app := &commands.App{Stdout: os.Stdout, Stderr: os.Stderr, Getenv: os.Getenv}
	return commands.Root(app).Execute(ctx, args)
}
