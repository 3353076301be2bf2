package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/npuzzle/internal/cli"
	perrors "github.com/matzehuels/npuzzle/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c := cli.New(os.Stderr, cli.LogInfo)
	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) || perrors.Is(err, perrors.ErrCodeTimeout) && ctx.Err() != nil {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode distinguishes usage errors from searches that found nothing.
func exitCode(err error) int {
	switch perrors.GetCode(err) {
	case perrors.ErrCodeNoSolution, perrors.ErrCodeLimitExceeded, perrors.ErrCodeTimeout:
		return 3
	case perrors.ErrCodeInvalidInput, perrors.ErrCodeInvalidBoard, perrors.ErrCodeInvalidStrategy,
		perrors.ErrCodeInvalidHeuristic, perrors.ErrCodeInvalidPlan, perrors.ErrCodeInvalidPath:
		return 2
	}
	return 1
}
