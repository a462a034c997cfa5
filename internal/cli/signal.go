package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// InterruptError is the cancellation cause of a context cancelled by a
// signal.
type InterruptError struct {
	Signal os.Signal
}

func (e *InterruptError) Error() string {
	return fmt.Sprintf("interrupted by %v", e.Signal)
}

// ExitCode returns the conventional exit status, 128 plus the signal number.
func (e *InterruptError) ExitCode() int {
	sig, ok := e.Signal.(syscall.Signal)
	if !ok {
		return 1
	}

	return 128 + int(sig)
}

// NotifyContext returns a copy of parent that is cancelled with an
// [*InterruptError] on SIGINT or SIGTERM. Call stop to release resources.
func NotifyContext(parent context.Context) (ctx context.Context, stop func()) {
	ctx, cancel := context.WithCancelCause(parent)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigs:
			cancel(&InterruptError{Signal: sig})
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigs)
		cancel(nil)
	}
}

// ExitCode returns the process exit status for the result of running the
// root command with ctx.
func ExitCode(ctx context.Context, err error) int {
	var ie *InterruptError
	if errors.As(context.Cause(ctx), &ie) {
		return ie.ExitCode()
	}

	if err != nil {
		return 1
	}

	return 0
}
