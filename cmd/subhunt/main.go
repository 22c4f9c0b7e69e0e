package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/vahedem/subhunt/internal/cli"
)

func main() {
	if err := run(context.Background(), os.Args, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Handle signal cancellation
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	return cli.Execute(ctx, args[1:], stdout, stderr)
}
