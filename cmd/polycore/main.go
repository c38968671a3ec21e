package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jakoblorz/polycore/internal/cli"
	"github.com/jakoblorz/polycore/internal/tui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.Execute(ctx)
	if err == nil {
		return
	}

	fmt.Fprintln(os.Stderr, tui.ErrorStyle.Render("Error: "+unwrapCommand(err).Error()))

	var usageErr *cli.UsageError
	if errors.As(err, &usageErr) {
		fmt.Fprintln(os.Stderr, tui.SubtleStyle.Render(usageErr.Hint()))
	}

	stop()
	os.Exit(1)
}

// unwrapCommand drops the "command failed" prefix Execute adds.
func unwrapCommand(err error) error {
	if inner := errors.Unwrap(err); inner != nil {
		return inner
	}
	return err
}
