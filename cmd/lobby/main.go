package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ligustah/lobby/internal/asset"
	"github.com/ligustah/lobby/internal/config"
)

// Exit codes
const (
	ExitSuccess         = 0
	ExitGeneralError    = 1
	ExitInvalidArgs     = 2
	ExitSourceNotAccess = 3
	ExitDecodeFailed    = 4
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return exitCode(err)
}

// usageError marks errors caused by bad arguments.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func invalidArgs(format string, a ...any) error {
	return usageError{fmt.Errorf(format, a...)}
}

func exitCode(err error) int {
	var ue usageError
	var te *asset.TransportError
	var de *asset.DecodeError
	switch {
	case errors.As(err, &ue), errors.Is(err, config.ErrMissingSessionID):
		return ExitInvalidArgs
	case errors.As(err, &de):
		return ExitDecodeFailed
	case errors.As(err, &te):
		return ExitSourceNotAccess
	default:
		return ExitGeneralError
	}
}
